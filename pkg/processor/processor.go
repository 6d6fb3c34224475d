// Package processor resolves facility snapshots arriving on Kafka and publishes
// the resulting resolutions.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"

	appcontext "github.com/Ramsey-B/edelweiss/pkg/context"
	"github.com/Ramsey-B/edelweiss/pkg/kafka"
	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/resolver"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

// Resolver resolves one request
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) (*models.Resolution, error)
}

// Publisher publishes resolution events
type Publisher interface {
	PublishResolution(ctx context.Context, event *kafka.ResolutionEvent) error
}

// Processor handles resolution request messages
type Processor struct {
	logger    ectologger.Logger
	resolver  Resolver
	publisher Publisher
}

// NewProcessor creates a new message processor
func NewProcessor(logger ectologger.Logger, resolver Resolver, publisher Publisher) *Processor {
	return &Processor{
		logger:    logger,
		resolver:  resolver,
		publisher: publisher,
	}
}

// ProcessMessage decodes a resolution request, resolves it and publishes the result.
// The message key names the resort when the body does not.
func (p *Processor) ProcessMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ProcessMessage")
	defer span.End()

	req, err := decodeRequest(msg.Value)
	if err != nil {
		return fmt.Errorf("%w: %w", kafka.ErrMalformed, err)
	}
	if req.ResortID == "" && len(req.ScopeIDs) == 0 {
		req.ResortID = msg.Key
	}
	ctx = appcontext.SetResortID(ctx, req.ResortID)

	resolution, err := p.resolver.Resolve(ctx, req)
	if err != nil {
		if resolver.IsClientError(err) {
			return fmt.Errorf("%w: %w", kafka.ErrMalformed, err)
		}
		return err
	}

	if err := p.publisher.PublishResolution(ctx, &kafka.ResolutionEvent{
		RequestKey: msg.Key,
		Resolution: resolution,
	}); err != nil {
		return fmt.Errorf("publishing resolution %s: %w", resolution.ID, err)
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"resolution_id":  resolution.ID,
		"lifts_coverage": resolution.Lifts.Coverage.CoveragePercent,
		"runs_coverage":  resolution.Runs.Coverage.CoveragePercent,
		"cached":         resolution.Cached,
	}).Info("Resolved facility snapshot")

	return nil
}

func decodeRequest(value []byte) (resolver.Request, error) {
	var req resolver.Request
	if len(bytes.TrimSpace(value)) == 0 {
		return req, fmt.Errorf("empty message")
	}

	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}
