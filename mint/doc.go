/*
Package mint runs a batch mint of tokens to an ordered list of recipients.

Recipients are split into mint messages and transactions by the batch
package. Transactions are submitted strictly one after another, each with the
next account sequence, and every submission is confirmed on its own.
*/
package mint
