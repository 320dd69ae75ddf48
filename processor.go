package msgframe

import (
	"context"
	"sync"
)

// Processor runs assemble/parse over batches with bounded concurrency. Each
// in-flight transaction is independent, so work fans out across a semaphore
// the way a connection-handling worker pool would drive it.
type Processor struct {
	schema       *MessageSchema
	assembler    *Assembler
	parser       *Parser
	concurrency  int
	errorHandler func(error)
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithConcurrency bounds the number of simultaneous worker goroutines.
func WithConcurrency(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithErrorHandler installs a callback invoked for each failed item in a
// batch, in addition to the per-item error slot.
func WithErrorHandler(handler func(error)) ProcessorOption {
	return func(p *Processor) {
		p.errorHandler = handler
	}
}

// NewProcessor creates a processor bound to one schema and registry.
func NewProcessor(schema *MessageSchema, registry *Registry, opts ...ProcessorOption) *Processor {
	p := &Processor{
		schema:      schema,
		assembler:   NewAssembler(registry),
		parser:      NewParser(registry),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseBatch parses each raw message concurrently. Results and errors are
// positional; a nil error at index i means results[i] is valid.
func (p *Processor) ParseBatch(ctx context.Context, batch [][]byte) ([]*GenericMessage, []error, error) {
	results := make([]*GenericMessage, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)

	for i, data := range batch {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, nil, ctx.Err()
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(idx int, raw []byte) {
			defer wg.Done()
			defer func() { <-semaphore }()

			msg, err := p.parser.Parse(raw, p.schema)
			if err != nil {
				errs[idx] = err
				if p.errorHandler != nil {
					p.errorHandler(err)
				}
				return
			}
			results[idx] = msg
		}(i, data)
	}

	wg.Wait()
	return results, errs, nil
}

// AssembleBatch assembles each message concurrently with the same
// positional-result contract as ParseBatch.
func (p *Processor) AssembleBatch(ctx context.Context, batch []*GenericMessage) ([][]byte, []error, error) {
	results := make([][]byte, len(batch))
	errs := make([]error, len(batch))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, p.concurrency)

	for i, msg := range batch {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, nil, ctx.Err()
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(idx int, m *GenericMessage) {
			defer wg.Done()
			defer func() { <-semaphore }()

			raw, err := p.assembler.Assemble(m)
			if err != nil {
				errs[idx] = err
				if p.errorHandler != nil {
					p.errorHandler(err)
				}
				return
			}
			results[idx] = raw
		}(i, msg)
	}

	wg.Wait()
	return results, errs, nil
}
