// Package future turns single capability calls into schedulable futures.
//
// Every operation is a plain value pairing the exclusively held handle
// with the operation's input. Constructing one does no work; each Poll
// forwards to the capability with the scheduler's context and returns the
// result unchanged. Once a future reported Ready it is spent: retry with a
// fresh one. Dropping a future before Ready cancels it without undoing any
// hardware side effect already committed.
package future
