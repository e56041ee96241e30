// Package portability moves endpoint definitions in and out of the server as
// backup snapshots.
//
// A snapshot holds the endpoint list and the request log, in JSON (the
// dashboard backup layout) or YAML. Importing recreates each endpoint through
// the registry as if it were newly submitted: IDs and creation times are
// reassigned, and a legacy "delay" key is accepted for "delayMs". Request log
// entries in a snapshot are counted but never restored.
package portability
