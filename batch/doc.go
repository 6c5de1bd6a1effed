/*
Package batch splits an ordered list of operations into bounded messages and
groups those messages into bounded transactions.

Two independent limits apply: the number of operations a single message can
carry and the number of messages a single transaction can carry. Every
message and every transaction is filled up to its limit, except possibly the
very last one. Flattening a plan always reproduces the input exactly.
*/
package batch
