package service

import (
	"errors"
	"testing"
)

func TestMarkGroupRead(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2)

	for i := 0; i < 3; i++ {
		if _, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 1, Body: "note"}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	if err := f.receiptSvc.MarkGroupRead(1, 2); err != nil {
		t.Fatalf("MarkGroupRead: %v", err)
	}

	// One messageRead per newly-read message, plus one device-sync event.
	readEvents := 0
	for _, ev := range f.broadcaster.GroupEvents {
		if ev.Event == EventMessageRead {
			readEvents++
		}
	}
	if readEvents != 3 {
		t.Errorf("messageRead broadcasts = %d, want 3", readEvents)
	}
	if len(f.broadcaster.UserEvents) != 1 || f.broadcaster.UserEvents[0].Event != EventMessagesMarkedAsRead {
		t.Errorf("user events = %+v, want one %s", f.broadcaster.UserEvents, EventMessagesMarkedAsRead)
	}

	rows, err := f.receiptSvc.UnreadCounts(2)
	if err != nil {
		t.Fatalf("UnreadCounts: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("unread rows after mark = %+v, want none", rows)
	}
}

func TestMarkGroupRead_Idempotent(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2)

	if _, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 1, Body: "once"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := f.receiptSvc.MarkGroupRead(1, 2); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	readEventsAfterFirst := len(f.broadcaster.GroupEvents)

	if err := f.receiptSvc.MarkGroupRead(1, 2); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	// The second call finds nothing unread: no new room broadcasts, only
	// the user-scoped sync event repeats.
	if got := len(f.broadcaster.GroupEvents); got != readEventsAfterFirst {
		t.Errorf("group events grew from %d to %d on a no-op mark", readEventsAfterFirst, got)
	}
	if got := len(f.broadcaster.UserEvents); got != 2 {
		t.Errorf("user events = %d, want 2", got)
	}

	// The ledger holds exactly one receipt for the message.
	msgs, _ := f.messages.FindGroupMessages(1, 1, 10)
	if len(msgs) != 1 || len(msgs[0].ReadBy) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(msgs[0].ReadBy))
	}
}

func TestMarkGroupRead_NonMember(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2)

	if err := f.receiptSvc.MarkGroupRead(1, 99); !errors.Is(err, ErrNotMember) {
		t.Errorf("err = %v, want ErrNotMember", err)
	}
}

func TestMarkGroupRead_SkipsOwnMessages(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2)

	if _, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 1, Body: "from 1"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := f.messageSvc.SendMessage(2, SendMessageInput{GroupID: 1, Body: "from 2"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	// User 1 reading the room only acknowledges user 2's message.
	if err := f.receiptSvc.MarkGroupRead(1, 1); err != nil {
		t.Fatalf("MarkGroupRead: %v", err)
	}

	msgs, _ := f.messages.FindGroupMessages(1, 1, 10)
	for _, msg := range msgs {
		for _, r := range msg.ReadBy {
			if msg.SenderID == r.UserID {
				t.Errorf("message %d has a self-receipt", msg.ID)
			}
		}
		if msg.SenderID == 2 && len(msg.ReadBy) != 1 {
			t.Errorf("message from user 2 has %d receipts, want 1", len(msg.ReadBy))
		}
	}
}

func TestMessageReaders(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2, 3)

	msg, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 1, Body: "who saw this"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	readers, err := f.receiptSvc.MessageReaders(msg.ID, 1)
	if err != nil {
		t.Fatalf("MessageReaders before any reads: %v", err)
	}
	if len(readers) != 0 {
		t.Errorf("readers = %v, want none", readers)
	}

	if err := f.receiptSvc.MarkGroupRead(1, 2); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	readers, err = f.receiptSvc.MessageReaders(msg.ID, 1)
	if err != nil {
		t.Fatalf("MessageReaders: %v", err)
	}
	if len(readers) != 1 || readers[0] != 2 {
		t.Errorf("readers = %v, want [2]", readers)
	}

	if _, err := f.receiptSvc.MessageReaders(msg.ID, 99); !errors.Is(err, ErrNotMember) {
		t.Errorf("non-member: err = %v, want ErrNotMember", err)
	}
	if _, err := f.receiptSvc.MessageReaders(404, 1); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("unknown message: err = %v, want ErrMessageNotFound", err)
	}
}

func TestUnreadCounts(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2)
	f.seedGroup(t, 2, 1, 2)

	for i := 0; i < 2; i++ {
		if _, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 1, Body: "g1"}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	if _, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 2, Body: "g2"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	rows, err := f.receiptSvc.UnreadCounts(2)
	if err != nil {
		t.Fatalf("UnreadCounts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].GroupID != 1 || rows[0].Count != 2 {
		t.Errorf("group 1 row = %+v, want count 2", rows[0])
	}
	if rows[1].GroupID != 2 || rows[1].Count != 1 {
		t.Errorf("group 2 row = %+v, want count 1", rows[1])
	}

	// The sender's own counters are untouched by their sends.
	senderRows, err := f.receiptSvc.UnreadCounts(1)
	if err != nil {
		t.Fatalf("UnreadCounts(sender): %v", err)
	}
	if len(senderRows) != 0 {
		t.Errorf("sender rows = %+v, want none", senderRows)
	}

	// Reading one group leaves the other's counter alone.
	if err := f.receiptSvc.MarkGroupRead(1, 2); err != nil {
		t.Fatalf("MarkGroupRead: %v", err)
	}
	rows, err = f.receiptSvc.UnreadCounts(2)
	if err != nil {
		t.Fatalf("UnreadCounts after mark: %v", err)
	}
	if len(rows) != 1 || rows[0].GroupID != 2 || rows[0].Count != 1 {
		t.Errorf("rows after mark = %+v, want only group 2 with count 1", rows)
	}
}

func TestUnreadCounts_DeletedMessage(t *testing.T) {
	f := newChatFixture()
	f.seedGroup(t, 1, 1, 2)

	msg, err := f.messageSvc.SendMessage(1, SendMessageInput{GroupID: 1, Body: "retracted"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := f.messageSvc.DeleteMessage(msg.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, err := f.receiptSvc.UnreadCounts(2)
	if err != nil {
		t.Fatalf("UnreadCounts: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows after delete = %+v, want none", rows)
	}
}
