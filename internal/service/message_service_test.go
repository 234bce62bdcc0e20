package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

type fakeMessageRepo struct {
	messages map[uuid.UUID]*model.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uuid.UUID]*model.Message)}
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *model.Message) error {
	msg.ID = uuid.New()
	msg.SentAt = time.Now()
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeMessageRepo) ListInbox(_ context.Context, _ uuid.UUID) ([]model.Message, error) {
	return []model.Message{}, nil
}

func (f *fakeMessageRepo) ListSent(_ context.Context, _ uuid.UUID) ([]model.Message, error) {
	return []model.Message{}, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, messageID, receiverID uuid.UUID) (bool, error) {
	m, ok := f.messages[messageID]
	if !ok || m.ReceiverID != receiverID {
		return false, nil
	}
	m.IsRead = true
	return true, nil
}

func TestSendMessage_SelfRejected(t *testing.T) {
	svc := service.NewMessageService(newFakeMessageRepo(), newFakeUserRepo())

	userID := uuid.New()
	_, err := svc.SendMessage(context.Background(), userID, userID, "hello me")
	require.ErrorIs(t, err, service.ErrSelfMessage)
}

func TestSendMessage_ReceiverMustExist(t *testing.T) {
	svc := service.NewMessageService(newFakeMessageRepo(), newFakeUserRepo())

	_, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), "hello")
	require.ErrorIs(t, err, service.ErrReceiverNotFound)
}

func TestMarkRead_OnlyReceiver(t *testing.T) {
	userRepo := newFakeUserRepo()
	receiver := &model.User{Name: "R", Role: model.RoleMember}
	userRepo.add(receiver)

	messageRepo := newFakeMessageRepo()
	svc := service.NewMessageService(messageRepo, userRepo)

	msg, err := svc.SendMessage(context.Background(), uuid.New(), receiver.ID, "see you at class")
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), msg.ID, uuid.New())
	require.ErrorIs(t, err, service.ErrMessageNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), msg.ID, receiver.ID))
}
