// Package reconcile matches the entries of two independently recorded
// ledgers against each other.
//
// A record is identified by every field except its date. Each record of
// one ledger is looked up among the other ledger's records with the same
// identity, tolerating a posting date one day earlier or later, and each
// counterpart can satisfy one record only. Results are deterministic for
// a given pair of inputs.
//
// Example usage:
//
//	res, err := reconcile.Reconcile(bookkeeping, statement)
//	if err != nil {
//		return err
//	}
//	for _, a := range res.A {
//		fmt.Println(a.Fields())
//	}
package reconcile

import (
	"fmt"
	"sync"
)

// Side selects one of the two ledgers of a Result.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Result holds both ledgers annotated, positionally matching the inputs.
type Result struct {
	A []Annotated
	B []Annotated
}

// Summary counts results for one side.
type Summary struct {
	Total   int
	Found   int
	Missing int
}

// Reconcile annotates every record of a against b and every record of b
// against a. The two passes run concurrently; each owns the index it
// consumes, so the outcome is the same as running them in sequence.
func Reconcile(a, b []Record) (*Result, error) {
	var (
		wg         sync.WaitGroup
		res        Result
		errA, errB error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res.A, errA = Match(a, NewIndex(b))
	}()
	go func() {
		defer wg.Done()
		res.B, errB = Match(b, NewIndex(a))
	}()
	wg.Wait()

	if errA != nil {
		return nil, fmt.Errorf("ledger A: %w", errA)
	}
	if errB != nil {
		return nil, fmt.Errorf("ledger B: %w", errB)
	}
	return &res, nil
}

// Side returns the annotated records for s.
func (r *Result) Side(s Side) []Annotated {
	if s == SideB {
		return r.B
	}
	return r.A
}

// Summary counts the statuses of one side.
func (r *Result) Summary(s Side) Summary {
	var sum Summary
	for _, a := range r.Side(s) {
		sum.Total++
		if a.Status == Found {
			sum.Found++
		} else {
			sum.Missing++
		}
	}
	return sum
}

// Rows returns one side as string rows with the status as trailing field.
func (r *Result) Rows(s Side) [][]string {
	side := r.Side(s)
	rows := make([][]string, len(side))
	for i, a := range side {
		rows[i] = a.Fields()
	}
	return rows
}
