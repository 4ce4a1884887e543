package main

import (
	"strings"
	"testing"
)

func makeMember(id uint64, nick string) *Client {
	return &Client{
		ID:        id,
		Nickname:  nick,
		WriteChan: make(chan string, 16),
	}
}

func drainLines(c *Client) []string {
	var lines []string
	for {
		select {
		case line, ok := <-c.WriteChan:
			if !ok {
				return lines
			}
			lines = append(lines, line)
		default:
			return lines
		}
	}
}

func TestChannelFirstMemberBecomesOperator(t *testing.T) {
	ch := NewChannel("#Lab")

	alice := makeMember(1, "alice")
	bob := makeMember(2, "bob")

	ch.addMember(alice)
	if !ch.isOperator(alice) {
		t.Fatalf("first member is not an operator")
	}

	ch.addMember(bob)
	if ch.isOperator(bob) {
		t.Errorf("second member became an operator")
	}

	// Operators stay a subset of members.
	ch.addOperator(99)
	if _, exists := ch.Operators[99]; exists {
		t.Errorf("non-member became an operator")
	}
}

func TestChannelInviteConsumedOnJoin(t *testing.T) {
	ch := NewChannel("#lab")

	alice := makeMember(1, "alice")
	bob := makeMember(2, "bob")

	ch.addMember(alice)

	ch.addInvite(bob.ID)
	if !ch.isInvited(bob.ID) {
		t.Fatalf("invite not recorded")
	}

	ch.addMember(bob)
	if ch.isInvited(bob.ID) {
		t.Errorf("invite not consumed by join")
	}
}

func TestChannelRemoveMember(t *testing.T) {
	ch := NewChannel("#lab")

	alice := makeMember(1, "alice")
	bob := makeMember(2, "bob")

	ch.addMember(alice)
	ch.addMember(bob)
	ch.addOperator(bob.ID)

	ch.removeMember(bob)

	if ch.isMember(bob) {
		t.Errorf("member not removed")
	}
	if ch.isOperator(bob) {
		t.Errorf("operator status survived removal")
	}
	if ch.memberCount() != 1 {
		t.Errorf("member count = %d, wanted 1", ch.memberCount())
	}

	// Rejoining does not restore operator status while others remain.
	ch.addMember(bob)
	if ch.isOperator(bob) {
		t.Errorf("rejoiner kept operator status")
	}
}

func TestChannelMemberListOrderAndPrefix(t *testing.T) {
	ch := NewChannel("#lab")

	alice := makeMember(1, "alice")
	bob := makeMember(2, "bob")
	carol := makeMember(3, "carol")

	ch.addMember(alice)
	ch.addMember(bob)
	ch.addMember(carol)

	list := ch.memberList()
	if list != "@alice bob carol" {
		t.Errorf("memberList() = %q, wanted %q", list, "@alice bob carol")
	}
}

func TestChannelBroadcast(t *testing.T) {
	ch := NewChannel("#lab")

	alice := makeMember(1, "alice")
	bob := makeMember(2, "bob")
	carol := makeMember(3, "carol")

	ch.addMember(alice)
	ch.addMember(bob)
	ch.addMember(carol)

	ch.broadcast("hello\r\n", nil)
	for _, member := range []*Client{alice, bob, carol} {
		lines := drainLines(member)
		if len(lines) != 1 || lines[0] != "hello\r\n" {
			t.Errorf("%s got %q, wanted the broadcast", member.Nickname,
				lines)
		}
	}

	// With an exclusion, the excluded member hears nothing.
	ch.broadcast("psst\r\n", alice)
	if lines := drainLines(alice); len(lines) != 0 {
		t.Errorf("excluded sender got %q", lines)
	}
	for _, member := range []*Client{bob, carol} {
		lines := drainLines(member)
		if len(lines) != 1 || lines[0] != "psst\r\n" {
			t.Errorf("%s got %q, wanted the broadcast", member.Nickname,
				lines)
		}
	}
}

func TestChannelSetTopic(t *testing.T) {
	ch := NewChannel("#lab")
	alice := makeMember(1, "alice")
	ch.addMember(alice)

	if !ch.setTopic("hello world", alice) {
		t.Fatalf("printable topic refused")
	}
	if ch.Topic != "hello world" || ch.TopicSetter != "alice" {
		t.Errorf("topic not stored with its setter")
	}
	if ch.TopicTime.IsZero() {
		t.Errorf("topic time not stored")
	}

	// Unprintable topics are refused and change nothing.
	if ch.setTopic("bad\x01topic", alice) {
		t.Fatalf("unprintable topic accepted")
	}
	if ch.Topic != "hello world" {
		t.Errorf("refused topic still replaced the old one")
	}
}

func TestChannelKeyAndLimit(t *testing.T) {
	ch := NewChannel("#lab")

	if ch.keyProtected() {
		t.Errorf("fresh channel is key protected")
	}

	ch.setKey("hunter2")
	if !ch.keyProtected() {
		t.Errorf("key did not protect the channel")
	}

	ch.setKey("")
	if ch.keyProtected() {
		t.Errorf("blank key left the channel protected")
	}

	ch.setLimit(5)
	if !ch.Limited || ch.Limit != 5 {
		t.Errorf("limit not applied")
	}

	// Limit 0 is a valid, fully closed, state.
	ch.setLimit(0)
	if !ch.Limited || ch.Limit != 0 {
		t.Errorf("zero limit not applied")
	}

	ch.clearLimit()
	if ch.Limited || ch.Limit != 0 {
		t.Errorf("limit not cleared")
	}
}

func TestChannelModeDigest(t *testing.T) {
	ch := NewChannel("#lab")

	if digest := ch.modeDigest(); digest != "+" {
		t.Errorf("modeDigest() = %q, wanted +", digest)
	}

	ch.InviteOnly = true
	ch.TopicRestricted = true
	ch.setKey("k")
	ch.setLimit(3)

	digest := ch.modeDigest()
	if digest != "+itkl" {
		t.Errorf("modeDigest() = %q, wanted +itkl", digest)
	}
	if strings.Contains(digest, "k3") {
		t.Errorf("digest leaked a value: %q", digest)
	}
}
