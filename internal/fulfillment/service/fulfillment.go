package service

import (
	"context"
	"time"

	"tablebot/internal/fulfillment/core"
	"tablebot/internal/fulfillment/dialogflow"
	"tablebot/internal/fulfillment/flows"
	reservations "tablebot/internal/reservations/service"
	"tablebot/pkg/logger"
)

type FulfillmentService interface {
	Fulfill(ctx context.Context, req *dialogflow.WebhookRequest) (*dialogflow.WebhookResponse, error)
	Steps() []core.Step
	Ready(ctx context.Context) error
}

type fulfillmentService struct {
	engine       *core.Engine
	adapter      *dialogflow.Adapter
	limiter      *core.Limiter
	reservations reservations.ReservationService
	log          *logger.Logger
}

// NewFulfillmentService wires every conversation flow to the reservation service and
// runs at most maxConcurrent turns at a time.
func NewFulfillmentService(
	svc reservations.ReservationService,
	adapter *dialogflow.Adapter,
	maxConcurrent int,
	log *logger.Logger,
) FulfillmentService {
	return &fulfillmentService{
		engine:       core.NewEngine(core.StepFallback, flows.All(svc)...),
		adapter:      adapter,
		limiter:      core.NewLimiter(maxConcurrent),
		reservations: svc,
		log:          log,
	}
}

func (s *fulfillmentService) Fulfill(ctx context.Context, req *dialogflow.WebhookRequest) (*dialogflow.WebhookResponse, error) {
	turn, err := s.adapter.DecodeTurn(req)
	if err != nil {
		return nil, err
	}

	log := s.log.With("step", turn.Step, "session", turn.Session)
	if turn.Step == core.StepFallback {
		log.Debug("no flow bound to intent", "intent", req.QueryResult.Intent.DisplayName)
	}

	start := time.Now()
	var reply core.Reply
	err = s.limiter.Run(ctx, func() error {
		var runErr error
		reply, runErr = s.engine.Run(ctx, turn)
		return runErr
	})
	if err != nil {
		log.Error("turn failed", "error", err, "duration", time.Since(start))
		return nil, err
	}

	resp, err := s.adapter.EncodeReply(turn.Session, reply)
	if err != nil {
		log.Error("failed to encode reply", "error", err)
		return nil, err
	}

	attrs := []any{"duration", time.Since(start)}
	if reply.Continuation != nil {
		attrs = append(attrs, "next", reply.Continuation.Next, "trigger", reply.Continuation.Trigger)
	}
	log.Info("turn fulfilled", attrs...)
	return resp, nil
}

func (s *fulfillmentService) Steps() []core.Step {
	return s.engine.Steps()
}

func (s *fulfillmentService) Ready(ctx context.Context) error {
	return s.reservations.Ready(ctx)
}
