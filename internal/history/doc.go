// Package history records the queries sent by the command-line client, so
// past prompts and replies can be listed after the process has exited.
//
// Recording is opt-in and lives entirely outside the query path: the client
// itself keeps no state between queries.
package history
