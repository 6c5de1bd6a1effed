package batch

import "fmt"

// Chunk splits items into consecutive slices of at most size elements.
// All slices hold exactly size elements except possibly the last one.
// An empty input returns nil.
//
// Returned slices share the backing array with items.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		panic(fmt.Sprintf("batch: invalid chunk size %d", size))
	}
	if len(items) == 0 {
		return nil
	}
	res := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		res = append(res, items[start:end:end])
	}
	return res
}

// Plan groups operations into messages of at most perMessage operations and
// the messages into transactions of at most perTx messages. The result is
// indexed as plan[transaction][message][operation].
func Plan[T any](ops []T, perMessage, perTx int) [][][]T {
	return Chunk(Chunk(ops, perMessage), perTx)
}

// Flatten returns all operations of a plan in order.
func Flatten[T any](plan [][][]T) []T {
	var res []T
	for _, msgs := range plan {
		for _, ops := range msgs {
			res = append(res, ops...)
		}
	}
	return res
}

// Stats summarizes the size of a plan.
type Stats struct {
	Transactions int
	Messages     int
	Operations   int
}

// StatsOf counts transactions, messages and operations of a plan.
func StatsOf[T any](plan [][][]T) Stats {
	s := Stats{Transactions: len(plan)}
	for _, msgs := range plan {
		s.Messages += len(msgs)
		for _, ops := range msgs {
			s.Operations += len(ops)
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%d operations in %d messages in %d transactions",
		s.Operations, s.Messages, s.Transactions)
}
