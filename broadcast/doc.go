/*
Package broadcast submits transactions that the operator confirmed.

Every submission builds and signs a transaction, renders it for review and
blocks until the Confirmer answers. Only a confirmed transaction is sent to
the ledger. The result of a submission is always an Outcome: failures are
reported, never retried.
*/
package broadcast
