/*
Package session implements session management and persistence orchestration.

It serializes access to a session's state so that an invoke and a resume for the
same conversation never interleave, within one process through reference-counted
mutexes and across replicas through an optional ports.DistributedLocker.
*/
package session
