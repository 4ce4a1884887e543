package main

import (
	"time"
)

// Channel holds everything to do with a channel.
//
// Members are non-owning references. The server owns the clients; when a
// client goes away it must be removed from every channel before it is
// dropped from the server's maps.
type Channel struct {
	// Original casing, as supplied by the client that created the channel.
	// Lookups go through the server's canonicalized index.
	Name string

	// Current topic. May be blank.
	Topic string

	// Who set the topic and when. Only meaningful while Topic is non-blank.
	TopicSetter string
	TopicTime   time.Time

	// Key ("" means no key). keyProtected is implied by Key != "".
	Key string

	// Member limit. 0 with Limited false means unlimited.
	Limit   int
	Limited bool

	InviteOnly      bool
	TopicRestricted bool

	// Client id to Client, plus insertion order. Broadcasts iterate members
	// in join order.
	Members     map[uint64]*Client
	memberOrder []uint64

	// Operator ids. Always a subset of Members.
	Operators map[uint64]struct{}

	// Ids invited while not yet members. An entry is consumed on join.
	Invites map[uint64]struct{}
}

// NewChannel creates a Channel. The first member must be added separately;
// addMember makes the first member an operator.
func NewChannel(name string) *Channel {
	return &Channel{
		Name:      name,
		Members:   make(map[uint64]*Client),
		Operators: make(map[uint64]struct{}),
		Invites:   make(map[uint64]struct{}),
	}
}

func (ch *Channel) isMember(c *Client) bool {
	if c == nil {
		return false
	}
	_, exists := ch.Members[c.ID]
	return exists
}

func (ch *Channel) isOperator(c *Client) bool {
	if c == nil {
		return false
	}
	_, exists := ch.Operators[c.ID]
	return exists
}

func (ch *Channel) isInvited(id uint64) bool {
	_, exists := ch.Invites[id]
	return exists
}

func (ch *Channel) addInvite(id uint64) {
	ch.Invites[id] = struct{}{}
}

func (ch *Channel) removeInvite(id uint64) {
	delete(ch.Invites, id)
}

// addMember adds the client to the channel. Joining consumes any pending
// invite. The first member of a channel becomes its operator.
func (ch *Channel) addMember(c *Client) {
	if c == nil || ch.isMember(c) {
		return
	}

	wasEmpty := len(ch.Members) == 0

	ch.Members[c.ID] = c
	ch.memberOrder = append(ch.memberOrder, c.ID)
	ch.removeInvite(c.ID)

	if wasEmpty {
		ch.addOperator(c.ID)
	}
}

// removeMember removes the client from members, operators, and the invite
// list. The caller decides whether the now possibly empty channel dies.
func (ch *Channel) removeMember(c *Client) {
	if c == nil || !ch.isMember(c) {
		return
	}

	delete(ch.Members, c.ID)
	delete(ch.Operators, c.ID)
	ch.removeInvite(c.ID)

	for i, id := range ch.memberOrder {
		if id == c.ID {
			ch.memberOrder = append(ch.memberOrder[:i], ch.memberOrder[i+1:]...)
			break
		}
	}
}

// addOperator promotes a current member. Ids that are not members are
// ignored so operators stay a subset of members.
func (ch *Channel) addOperator(id uint64) {
	if _, exists := ch.Members[id]; !exists {
		return
	}
	ch.Operators[id] = struct{}{}
}

func (ch *Channel) removeOperator(id uint64) {
	delete(ch.Operators, id)
}

func (ch *Channel) memberCount() int {
	return len(ch.Members)
}

// setKey sets or clears the channel key. A blank key means the channel is
// no longer key protected.
func (ch *Channel) setKey(key string) {
	ch.Key = key
}

func (ch *Channel) keyProtected() bool {
	return ch.Key != ""
}

// setLimit sets the member cap. A limit of 0 still counts as limited: such
// a channel turns every join away.
func (ch *Channel) setLimit(limit int) {
	ch.Limit = limit
	ch.Limited = true
}

func (ch *Channel) clearLimit() {
	ch.Limit = 0
	ch.Limited = false
}

// setTopic stores the topic together with who set it and when. Topics with
// non-printable characters are silently refused.
func (ch *Channel) setTopic(topic string, setter *Client) bool {
	if !isPrintableASCII(topic) {
		return false
	}

	ch.Topic = topic
	ch.TopicSetter = setter.Nickname
	ch.TopicTime = time.Now()
	return true
}

// membersInOrder returns the members in join order.
func (ch *Channel) membersInOrder() []*Client {
	members := make([]*Client, 0, len(ch.memberOrder))
	for _, id := range ch.memberOrder {
		if member, exists := ch.Members[id]; exists {
			members = append(members, member)
		}
	}
	return members
}

// memberList builds the 353 payload: nicks in join order, operators
// prefixed with @.
func (ch *Channel) memberList() string {
	list := ""
	for _, member := range ch.membersInOrder() {
		if list != "" {
			list += " "
		}
		if _, op := ch.Operators[member.ID]; op {
			list += "@"
		}
		list += member.Nickname
	}
	return list
}

// broadcast queues a raw line to every member in join order. except, if
// non-nil, is skipped; PRIVMSG and QUIT use it to keep the actor from
// hearing its own message.
func (ch *Channel) broadcast(line string, except *Client) {
	for _, member := range ch.membersInOrder() {
		if except != nil && member.ID == except.ID {
			continue
		}
		member.queueLine(line)
	}
}

// modeDigest summarizes the active flags for a bare MODE query. Key and
// limit values are not revealed.
func (ch *Channel) modeDigest() string {
	digest := "+"
	if ch.InviteOnly {
		digest += "i"
	}
	if ch.TopicRestricted {
		digest += "t"
	}
	if ch.keyProtected() {
		digest += "k"
	}
	if ch.Limited {
		digest += "l"
	}
	return digest
}
