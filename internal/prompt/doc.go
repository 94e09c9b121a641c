// Package prompt formats the fixed instruction templates sent to the model
// and separates reasoning traces from model answers.
package prompt
