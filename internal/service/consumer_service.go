package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-interview-coach-be/internal/dto"
	"ai-interview-coach-be/internal/pkg/mailer"
	"ai-interview-coach-be/internal/repository/contract"
	"ai-interview-coach-be/internal/repository/specification"
	"ai-interview-coach-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService handles completed sessions off the request path: it emails
// the candidate their summary once the analysis artifact exists.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	store        contract.SessionStore
	emailService mailer.IEmailService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	store contract.SessionStore,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		store:        store,
		emailService: emailService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal completion message: %v", err)
		msg.Ack() // invalid messages would retry forever otherwise
		return
	}

	session, err := cs.store.Get(ctx, payload.SessionId)
	if err != nil || session == nil {
		log.Printf("[ERROR] Failed to load session %s: %v", payload.SessionId, err)
		msg.Nack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil || user == nil {
		log.Printf("[ERROR] Failed to load user %s: %v", payload.UserId, err)
		msg.Ack() // the user is gone, retrying will not help
		return
	}

	summary := mailer.SessionSummary{
		FullName:     user.FullName,
		Role:         session.Role,
		Questions:    len(session.Responses),
		AverageScore: session.AverageScore(),
		AnalysisURL:  session.AnalysisURL,
	}
	if err := cs.emailService.SendSessionSummary(user.Email, summary); err != nil {
		log.Printf("[ERROR] Failed to send summary email for session %s: %v", payload.SessionId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Summary email sent for session %s", payload.SessionId)
	msg.Ack()
}
