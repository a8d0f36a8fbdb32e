package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// QueryReader reads one query per line. Blank lines and lines starting with
// '#' are skipped.
type QueryReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewQueryReader creates a reader over r.
func NewQueryReader(r io.Reader) *QueryReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &QueryReader{reader: bufio.NewReader(r)}
}

// ReadQuery returns the next query. It returns io.EOF once the input is
// exhausted and ErrInputCancelled when ctx ends first.
func (r *QueryReader) ReadQuery(ctx context.Context) (string, error) {
	for {
		line, err := r.readLine(ctx)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// ReadAll collects every remaining query.
func (r *QueryReader) ReadAll(ctx context.Context) ([]string, error) {
	var queries []string
	for {
		q, err := r.ReadQuery(ctx)
		if errors.Is(err, io.EOF) {
			return queries, nil
		}
		if err != nil {
			return queries, err
		}
		queries = append(queries, q)
	}
}

// readLine reads up to the next newline without blocking past ctx. A final
// line without a newline is returned together with io.EOF.
func (r *QueryReader) readLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	// The reading goroutine outlives a cancelled call until the read returns.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return strings.TrimSpace(res.value), res.err
	}
}
