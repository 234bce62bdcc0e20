package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var (
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrMessageNotFound  = errors.New("message not found")
)

type MessageService interface {
	SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*model.Message, error)
	Inbox(ctx context.Context, userID uuid.UUID) ([]model.Message, error)
	Sent(ctx context.Context, userID uuid.UUID) ([]model.Message, error)
	MarkRead(ctx context.Context, messageID, userID uuid.UUID) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (s *messageService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*model.Message, error) {
	if senderID == receiverID {
		return nil, ErrSelfMessage
	}

	if _, err := s.userRepo.FindByID(ctx, receiverID); err != nil {
		return nil, ErrReceiverNotFound
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

func (s *messageService) Inbox(ctx context.Context, userID uuid.UUID) ([]model.Message, error) {
	return s.messageRepo.ListInbox(ctx, userID)
}

func (s *messageService) Sent(ctx context.Context, userID uuid.UUID) ([]model.Message, error) {
	return s.messageRepo.ListSent(ctx, userID)
}

func (s *messageService) MarkRead(ctx context.Context, messageID, userID uuid.UUID) error {
	updated, err := s.messageRepo.MarkRead(ctx, messageID, userID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrMessageNotFound
	}
	return nil
}
