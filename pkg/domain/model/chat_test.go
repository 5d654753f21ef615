package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/campus-lab/minerva/pkg/domain/model"
)

func TestLatestUserMessage(t *testing.T) {
	history := []model.ChatTurn{
		{Type: model.ChatTurnUser, Message: "first"},
		{Type: model.ChatTurnAI, Message: "reply"},
		{Type: model.ChatTurnUser, Message: "second"},
		{Type: model.ChatTurnAI, Message: "reply again"},
	}

	msg, ok := model.LatestUserMessage(history)
	gt.Bool(t, ok).True()
	gt.Value(t, msg).Equal("second")
}

func TestLatestUserMessageSkipsEmptyTurns(t *testing.T) {
	history := []model.ChatTurn{
		{Type: model.ChatTurnUser, Message: "asked"},
		{Type: model.ChatTurnUser, Message: ""},
	}

	msg, ok := model.LatestUserMessage(history)
	gt.Bool(t, ok).True()
	gt.Value(t, msg).Equal("asked")
}

func TestLatestUserMessageEmptyHistory(t *testing.T) {
	_, ok := model.LatestUserMessage(nil)
	gt.Bool(t, ok).False()

	_, ok = model.LatestUserMessage([]model.ChatTurn{
		{Type: model.ChatTurnAI, Message: "only ai"},
	})
	gt.Bool(t, ok).False()
}
