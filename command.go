package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/horgh/irc"
)

// handleMessage takes action based on a client's IRC message.
//
// Note: Only the server goroutine should call this.
func (s *Server) handleMessage(c *Client, m irc.Message) {
	// Clients SHOULD NOT (section 2.3) send a prefix. We tolerate one and
	// ignore it.

	// Commands must arrive uppercase. We never canonicalize on the client's
	// behalf.
	if !isUppercaseCommand(m.Command) {
		c.messageFromServer("421", []string{m.Command,
			"Commands must be uppercase"})
		return
	}

	switch m.Command {
	case "PASS":
		s.passCommand(c, m)
		return
	case "NICK":
		s.nickCommand(c, m)
		return
	case "USER":
		s.userCommand(c, m)
		return
	case "PING":
		s.pingCommand(c, m)
		return
	}

	// Everything else requires a registered connection.
	switch m.Command {
	case "JOIN", "PART", "PRIVMSG", "MODE", "INVITE", "KICK", "TOPIC",
		"NAMES", "QUIT":
		if !c.Registered {
			// 451 ERR_NOTREGISTERED
			c.messageFromServer("451", []string{"You have not registered"})
			return
		}
	default:
		// 421 ERR_UNKNOWNCOMMAND
		c.messageFromServer("421", []string{m.Command, "Unknown command"})
		return
	}

	switch m.Command {
	case "JOIN":
		s.joinCommand(c, m)
	case "PART":
		s.partCommand(c, m)
	case "PRIVMSG":
		s.privmsgCommand(c, m)
	case "MODE":
		s.modeCommand(c, m)
	case "INVITE":
		s.inviteCommand(c, m)
	case "KICK":
		s.kickCommand(c, m)
	case "TOPIC":
		s.topicCommand(c, m)
	case "NAMES":
		s.namesCommand(c, m)
	case "QUIT":
		s.quitCommand(c, m)
	}
}

// PASS must come before anything else the client says.
func (s *Server) passCommand(c *Client, m irc.Message) {
	// Exactly one parameter: the password.
	if len(m.Params) != 1 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"PASS", "Not enough parameters"})
		return
	}

	if c.PassAccepted {
		// 462 ERR_ALREADYREGISTRED
		c.messageFromServer("462", []string{
			"PASS already accepted, proceed with NICK and USER"})
		return
	}

	if c.NickSet || c.UserSet {
		// 462 ERR_ALREADYREGISTRED (order violation)
		c.messageFromServer("462", []string{
			"PASS must be sent before NICK or USER"})
		return
	}

	if m.Params[0] != s.Config.Password {
		// 464 ERR_PASSWDMISMATCH
		c.messageFromServer("464", []string{"Password incorrect"})
		return
	}

	c.PassAccepted = true

	c.maybeQueueMessage(irc.Message{
		Prefix:  s.Config.ServerName,
		Command: "NOTICE",
		Params:  []string{"AUTH", "Password accepted"},
	})
}

// NICK happens both at connection registration time and after. There are
// different rules.
func (s *Server) nickCommand(c *Client, m irc.Message) {
	// We should have one parameter: The nick they want.
	if len(m.Params) == 0 {
		// 431 ERR_NONICKNAMEGIVEN
		c.messageFromServer("431", []string{"No nickname given"})
		return
	}
	nick := m.Params[0]

	if !c.PassAccepted {
		c.messageFromServer("462", []string{"You must send PASS before NICK"})
		return
	}

	// USER without NICK can't happen, so seeing UserSet here without full
	// registration means the client scrambled the order.
	if c.UserSet && !c.Registered {
		c.messageFromServer("462", []string{"NICK must be sent before USER"})
		return
	}

	if !isValidNick(nick) {
		// 432 ERR_ERRONEUSNICKNAME
		c.messageFromServer("432", []string{nick, "Erroneous nickname"})
		return
	}

	// Nick must be caselessly unique, counting connections that have not
	// registered yet.
	if s.nickInUse(nick, c) {
		// 433 ERR_NICKNAMEINUSE
		c.messageFromServer("433", []string{nick, "Nickname is already in use"})
		return
	}

	if c.Registered {
		// Message needs to come from the OLD nick, so announce before
		// making the update.
		delete(s.Nicks, canonicalizeNick(c.Nickname))
		c.messageClient(c, "NICK", []string{nick})

		c.Nickname = nick
		s.Nicks[canonicalizeNick(nick)] = c
		return
	}

	c.Nickname = nick
	c.NickSet = true

	c.messageFromServer("NOTICE", []string{nick, "Nickname set to " + nick})

	s.maybeCompleteRegistration(c)
}

// USER only occurs during connection registration, after PASS and NICK.
func (s *Server) userCommand(c *Client, m irc.Message) {
	if !c.PassAccepted {
		c.messageFromServer("462", []string{"You must send PASS before USER"})
		return
	}

	if c.Registered {
		c.messageFromServer("462", []string{
			"Unauthorized command (already registered)"})
		return
	}

	if c.UserSet {
		c.messageFromServer("462", []string{"USER already set"})
		return
	}

	if !c.NickSet {
		c.messageFromServer("462", []string{"NICK must be sent before USER"})
		return
	}

	// 4 parameters: <user> <mode> <unused> <realname>. A multi-word
	// realname without a : shows up as extra parameters and gets refused.
	if len(m.Params) < 4 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"USER", "Not enough parameters"})
		return
	}
	if len(m.Params) > 4 {
		c.messageFromServer("461", []string{"USER",
			"Use : for multi-word realnames"})
		return
	}

	if m.Params[1] != "0" {
		c.messageFromServer("461", []string{"USER", "Mode must be 0"})
		return
	}

	c.Username = m.Params[0]
	// The peer IP is the authoritative hostname no matter what the client
	// supplies.
	c.Hostname = c.Conn.IP.String()
	c.RealName = m.Params[3]
	c.UserSet = true

	s.maybeCompleteRegistration(c)
}

// maybeCompleteRegistration promotes the client once PASS, NICK, and USER
// have all been satisfied, and sends the welcome numerics.
func (s *Server) maybeCompleteRegistration(c *Client) {
	if !c.PassAccepted || !c.NickSet || !c.UserSet || c.Registered {
		return
	}

	c.Registered = true
	s.Nicks[canonicalizeNick(c.Nickname)] = c

	// 001 RPL_WELCOME
	c.messageFromServer("001", []string{
		fmt.Sprintf("Welcome to the Internet Relay Network %s", c.nickUhost()),
	})

	// 002 RPL_YOURHOST
	c.messageFromServer("002", []string{
		fmt.Sprintf("Your host is %s, running version %s",
			s.Config.ServerName, s.Config.Version),
	})

	// 003 RPL_CREATED
	c.messageFromServer("003", []string{
		fmt.Sprintf("This server was created %s", s.Created),
	})

	// 004 RPL_MYINFO
	// <servername> <version> <available user modes> <available channel modes>
	// We have no user modes, so that column is blank. Sent raw as the
	// encoder can't express an empty middle parameter.
	c.queueLine(formatReplyLine(fmt.Sprintf(":%s 004 %s %s %s  itkol",
		s.Config.ServerName, c.Nickname, s.Config.ServerName,
		s.Config.Version)))
}

// JOIN <chanlist> [<keylist>]. Channels and keys pair up positionally.
func (s *Server) joinCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"JOIN", "Not enough parameters"})
		return
	}

	channels := strings.Split(m.Params[0], ",")
	var keys []string
	if len(m.Params) > 1 {
		keys = strings.Split(m.Params[1], ",")
	}

	for i, name := range channels {
		key := ""
		if i < len(keys) {
			key = keys[i]
		}
		s.joinChannel(c, name, key)
	}
}

func (s *Server) joinChannel(c *Client, name, key string) {
	if !isValidChannelName(name) {
		// 403 ERR_NOSUCHCHANNEL. Used to indicate channel name is invalid.
		c.messageFromServer("403", []string{name, "Invalid channel name"})
		return
	}

	// Look up / create the channel.
	channel := s.getChannel(name)
	created := false
	if channel == nil {
		channel = NewChannel(name)
		s.Channels[canonicalizeChannel(name)] = channel
		created = true
	}

	if channel.isMember(c) {
		// 443 ERR_USERONCHANNEL
		c.messageFromServer("443", []string{channel.Name,
			"You are already on that channel"})
		return
	}

	// Mode gates, in order: invite only, key, limit. A fresh channel has
	// none of them.
	if !created {
		if channel.InviteOnly && !channel.isInvited(c.ID) {
			// 473 ERR_INVITEONLYCHAN
			c.messageFromServer("473", []string{channel.Name,
				"Cannot join channel (+i)"})
			return
		}

		if channel.keyProtected() {
			if len(key) == 0 {
				// 475 ERR_BADCHANNELKEY
				c.messageFromServer("475", []string{channel.Name,
					"Key required (+k)"})
				return
			}
			if key != channel.Key {
				c.messageFromServer("475", []string{channel.Name,
					"Incorrect key (+k)"})
				return
			}
		}

		if channel.Limited {
			if channel.Limit == 0 {
				// 471 ERR_CHANNELISFULL
				c.messageFromServer("471", []string{channel.Name,
					"Channel limit is 0 (+l)"})
				return
			}
			if channel.memberCount() >= channel.Limit {
				c.messageFromServer("471", []string{channel.Name,
					"Cannot join channel (+l)"})
				return
			}
		}
	}

	// The first member added becomes operator. Joining consumes a pending
	// invite.
	channel.addMember(c)

	// Everyone hears the join, the joiner included.
	channel.broadcast(c.lineFromClient("JOIN", []string{channel.Name}), nil)

	s.sendTopic(c, channel)

	// 353 RPL_NAMREPLY / 366 RPL_ENDOFNAMES
	c.messageFromServer("353", []string{"=", channel.Name,
		channel.memberList()})
	c.messageFromServer("366", []string{channel.Name, "End of NAMES list"})
}

// sendTopic reports the channel topic: 331 when unset, otherwise 332 plus a
// notice naming the setter and when.
func (s *Server) sendTopic(c *Client, channel *Channel) {
	if len(channel.Topic) == 0 {
		// 331 RPL_NOTOPIC
		c.messageFromServer("331", []string{channel.Name, "No topic is set"})
		return
	}

	// 332 RPL_TOPIC
	c.messageFromServer("332", []string{channel.Name, channel.Topic})
	c.messageFromServer("NOTICE", []string{c.Nickname,
		fmt.Sprintf("Topic set by %s at %s", channel.TopicSetter,
			channel.TopicTime.Format("2006-01-02 15:04:05"))})
}

// PART <chanlist> [:<message>]
func (s *Server) partCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"PART", "Not enough parameters"})
		return
	}

	message := ""
	if len(m.Params) > 1 {
		message = m.Params[1]
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		s.partChannel(c, name, message)
	}
}

func (s *Server) partChannel(c *Client, name, message string) {
	channel := s.getChannel(name)
	if channel == nil {
		// 403 ERR_NOSUCHCHANNEL
		c.messageFromServer("403", []string{name, "No such channel"})
		return
	}

	if !channel.isMember(c) {
		// 442 ERR_NOTONCHANNEL
		c.messageFromServer("442", []string{channel.Name,
			"You're not on that channel"})
		return
	}

	// Tell everyone, the leaver included, then remove them.
	line := c.lineFromClient("PART", []string{channel.Name})
	if len(message) > 0 {
		line = c.lineFromClientTrailing("PART", []string{channel.Name},
			message)
	}
	channel.broadcast(line, nil)

	channel.removeMember(c)
	s.destroyChannelIfEmpty(channel)
}

// PRIVMSG <targetlist> :<text>
func (s *Server) privmsgCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		// 411 ERR_NORECIPIENT
		c.messageFromServer("411", []string{"No recipient given (PRIVMSG)"})
		return
	}

	if len(m.Params) == 1 {
		// 412 ERR_NOTEXTTOSEND
		c.messageFromServer("412", []string{"No text to send"})
		return
	}

	targets := m.Params[0]
	msg := m.Params[1]

	// The full formatted line has to fit. We don't trim, we refuse.
	msgLen := len(":") + len(c.nickUhost()) + len(" PRIVMSG ") + len(targets) +
		len(" :") + len(msg) + len("\r\n")
	if msgLen > maxReplyLength {
		// 405, reused to mean the message is too long.
		c.messageFromServer("405", []string{"Message too long"})
		return
	}

	for _, target := range strings.Split(targets, ",") {
		if len(target) == 0 {
			continue
		}

		if target[0] == '#' {
			channel := s.getChannel(target)
			if channel == nil {
				// 403 ERR_NOSUCHCHANNEL
				c.messageFromServer("403", []string{target, "No such channel"})
				continue
			}

			if !channel.isMember(c) {
				// 404 ERR_CANNOTSENDTOCHAN
				c.messageFromServer("404", []string{target,
					"Cannot send to channel"})
				continue
			}

			// Everyone but the sender hears it.
			channel.broadcast(c.lineFromClientTrailing("PRIVMSG",
				[]string{target}, msg), c)
			continue
		}

		targetClient := s.getClientByNick(target)
		if targetClient == nil {
			// 401 ERR_NOSUCHNICK
			c.messageFromServer("401", []string{target, "No such nickname"})
			continue
		}

		targetClient.queueLine(c.lineFromClientTrailing("PRIVMSG",
			[]string{target}, msg))
	}
}

// modeChange is one parsed unit of a MODE command: a sign, a letter, and
// the parameter the letter consumed, if any.
type modeChange struct {
	Sign   byte
	Letter byte
	Param  string
}

// wantsParam says whether a mode unit consumes a parameter. Only +k, +l,
// and ±o do.
func (mc modeChange) wantsParam() bool {
	switch mc.Letter {
	case 'k', 'l':
		return mc.Sign == '+'
	case 'o':
		return true
	}
	return false
}

// parseModeChanges interprets MODE arguments: sign-prefixed mode strings
// with parameters consumed left to right in the order the letters demand
// them. It validates letters and parameter counts before the caller mutates
// anything; the caller checks ±o targets before applying any unit.
//
// The error cases mirror the numeric the caller should send: an unknown
// letter and a missing parameter are the only ways to fail.
func parseModeChanges(args []string) ([]modeChange, byte, bool) {
	var changes []modeChange
	var params []string

	for _, arg := range args {
		if len(arg) == 0 {
			continue
		}

		if arg[0] != '+' && arg[0] != '-' {
			params = append(params, arg)
			continue
		}

		sign := byte(' ')
		for i := 0; i < len(arg); i++ {
			if arg[i] == '+' || arg[i] == '-' {
				sign = arg[i]
				continue
			}
			changes = append(changes, modeChange{Sign: sign, Letter: arg[i]})
		}
	}

	// Validate letters before binding parameters so nothing gets applied
	// from a string with garbage in it.
	for _, change := range changes {
		if !strings.ContainsRune("itkol", rune(change.Letter)) {
			return nil, change.Letter, false
		}
	}

	paramIndex := 0
	for i := range changes {
		if !changes[i].wantsParam() {
			continue
		}
		if paramIndex >= len(params) {
			return nil, 0, false
		}
		changes[i].Param = params[paramIndex]
		paramIndex++
	}

	return changes, 0, true
}

// MODE <target> [<modestring> <args...>]. Channel modes only.
func (s *Server) modeCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"MODE", "Not enough parameters"})
		return
	}

	// User modes are not implemented; the target must be a channel.
	channel := s.getChannel(m.Params[0])
	if channel == nil {
		// 403 ERR_NOSUCHCHANNEL
		c.messageFromServer("403", []string{m.Params[0], "No such channel"})
		return
	}

	if !channel.isOperator(c) {
		// 482 ERR_CHANOPRIVSNEEDED
		c.messageFromServer("482", []string{channel.Name,
			"You're not channel operator"})
		return
	}

	// Bare MODE asks for the current settings.
	if len(m.Params) == 1 {
		// 324 RPL_CHANNELMODEIS
		c.messageFromServer("324", []string{channel.Name,
			channel.modeDigest()})
		return
	}

	changes, badLetter, ok := parseModeChanges(m.Params[1:])
	if !ok {
		if badLetter != 0 {
			// 472 ERR_UNKNOWNMODE
			c.messageFromServer("472", []string{string(badLetter),
				"is unknown mode"})
			return
		}
		c.messageFromServer("461", []string{"MODE", "Not enough parameters"})
		return
	}

	// ±o targets must be current members. Check them all before anything
	// is applied.
	for _, change := range changes {
		if change.Letter != 'o' {
			continue
		}
		target := s.getClientByNick(change.Param)
		if target == nil || !channel.isMember(target) {
			// 441 ERR_USERNOTINCHANNEL
			c.messageFromServer("441", []string{change.Param, channel.Name,
				"They aren't on that channel"})
			return
		}
	}

	for _, change := range changes {
		s.applyModeChange(c, channel, change)
	}
}

// applyModeChange performs one already-validated mode unit and broadcasts
// it. Key and limit values never appear in the broadcast.
func (s *Server) applyModeChange(c *Client, channel *Channel,
	change modeChange) {
	applied := fmt.Sprintf("%c%c", change.Sign, change.Letter)

	switch change.Letter {
	case 'i':
		channel.InviteOnly = change.Sign == '+'
	case 't':
		channel.TopicRestricted = change.Sign == '+'
	case 'k':
		if change.Sign == '+' {
			channel.setKey(change.Param)
		} else {
			channel.setKey("")
		}
	case 'l':
		if change.Sign == '+' {
			// Garbage limits become 0, which shuts the door entirely.
			limit, err := strconv.Atoi(change.Param)
			if err != nil || limit < 0 {
				limit = 0
			}
			channel.setLimit(limit)
		} else {
			channel.clearLimit()
		}
	case 'o':
		target := s.getClientByNick(change.Param)
		if target == nil || !channel.isMember(target) {
			// 441 ERR_USERNOTINCHANNEL
			c.messageFromServer("441", []string{change.Param, channel.Name,
				"They aren't on that channel"})
			return
		}
		if change.Sign == '+' {
			channel.addOperator(target.ID)
		} else {
			channel.removeOperator(target.ID)
		}

		channel.broadcast(c.lineFromClient("MODE",
			[]string{channel.Name, applied, target.Nickname}), nil)
		return
	}

	channel.broadcast(c.lineFromClient("MODE",
		[]string{channel.Name, applied}), nil)
}

// INVITE <nick> <chan>
func (s *Server) inviteCommand(c *Client, m irc.Message) {
	if len(m.Params) < 2 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"INVITE", "Not enough parameters"})
		return
	}

	nick := m.Params[0]

	channel := s.getChannel(m.Params[1])
	if channel == nil {
		// 403 ERR_NOSUCHCHANNEL
		c.messageFromServer("403", []string{m.Params[1], "No such channel"})
		return
	}

	if !channel.isMember(c) {
		// 442 ERR_NOTONCHANNEL
		c.messageFromServer("442", []string{channel.Name,
			"You're not on that channel"})
		return
	}

	if channel.InviteOnly && !channel.isOperator(c) {
		// 482 ERR_CHANOPRIVSNEEDED
		c.messageFromServer("482", []string{channel.Name,
			"You're not channel operator"})
		return
	}

	target := s.getClientByNick(nick)
	if target == nil {
		// 401 ERR_NOSUCHNICK
		c.messageFromServer("401", []string{nick, "No such nickname"})
		return
	}

	if channel.isMember(target) {
		// 443 ERR_USERONCHANNEL
		c.messageFromServer("443", []string{target.Nickname, channel.Name,
			"is already on channel"})
		return
	}

	channel.addInvite(target.ID)

	// Both ends see the invite line.
	line := c.lineFromClient("INVITE",
		[]string{target.Nickname, channel.Name})
	target.queueLine(line)
	c.queueLine(line)
}

// KICK <chan> <nick> [:<comment>]
func (s *Server) kickCommand(c *Client, m irc.Message) {
	if len(m.Params) < 2 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"KICK", "Not enough parameters"})
		return
	}

	channel := s.getChannel(m.Params[0])
	if channel == nil {
		// 403 ERR_NOSUCHCHANNEL
		c.messageFromServer("403", []string{m.Params[0], "No such channel"})
		return
	}

	if !channel.isMember(c) {
		// 442 ERR_NOTONCHANNEL
		c.messageFromServer("442", []string{channel.Name,
			"You're not on that channel"})
		return
	}

	if !channel.isOperator(c) {
		// 482 ERR_CHANOPRIVSNEEDED
		c.messageFromServer("482", []string{channel.Name,
			"You're not channel operator"})
		return
	}

	target := s.getClientByNick(m.Params[1])
	if target == nil || !channel.isMember(target) {
		// 441 ERR_USERNOTINCHANNEL
		c.messageFromServer("441", []string{m.Params[1], channel.Name,
			"They aren't on that channel"})
		return
	}

	comment := ""
	if len(m.Params) > 2 {
		comment = m.Params[2]
	}

	// Everyone hears it, the target and the kicker included. Then the
	// target is gone.
	channel.broadcast(c.lineFromClientTrailing("KICK",
		[]string{channel.Name, target.Nickname}, comment), nil)

	channel.removeMember(target)
	s.destroyChannelIfEmpty(channel)
}

// TOPIC <chan> [:<text>]
func (s *Server) topicCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"TOPIC", "Not enough parameters"})
		return
	}

	channel := s.getChannel(m.Params[0])
	if channel == nil {
		// 403 ERR_NOSUCHCHANNEL
		c.messageFromServer("403", []string{m.Params[0], "No such channel"})
		return
	}

	if !channel.isMember(c) {
		// 442 ERR_NOTONCHANNEL
		c.messageFromServer("442", []string{channel.Name,
			"You're not on that channel"})
		return
	}

	// No new topic: just report the current one.
	if len(m.Params) == 1 {
		s.sendTopic(c, channel)
		return
	}

	if channel.TopicRestricted && !channel.isOperator(c) {
		// 482 ERR_CHANOPRIVSNEEDED
		c.messageFromServer("482", []string{channel.Name,
			"You're not channel operator"})
		return
	}

	topic := strings.TrimPrefix(m.Params[1], ":")
	topic = strings.Trim(topic, " \t")

	// Topics with unprintable characters are dropped on the floor.
	if !channel.setTopic(topic, c) {
		return
	}

	channel.broadcast(c.lineFromClientTrailing("TOPIC",
		[]string{channel.Name}, topic), nil)
}

// NAMES [<chanlist>]
func (s *Server) namesCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 || len(m.Params[0]) == 0 {
		s.sendAllNames(c)
		return
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		name = strings.Trim(name, " \t")
		if len(name) == 0 {
			continue
		}

		channel := s.getChannel(name)
		if channel == nil {
			// Unknown channels get only the end marker.
			c.messageFromServer("366", []string{name, "End of NAMES list"})
			continue
		}

		s.sendNames(c, channel)
	}
}

func (s *Server) sendNames(c *Client, channel *Channel) {
	// 353 RPL_NAMREPLY / 366 RPL_ENDOFNAMES
	c.messageFromServer("353", []string{"=", channel.Name,
		channel.memberList()})
	c.messageFromServer("366", []string{channel.Name, "End of NAMES list"})
}

// sendAllNames lists every channel, then registered users who are in no
// channel under the virtual target *.
func (s *Server) sendAllNames(c *Client) {
	var keys []string
	for key := range s.Channels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		s.sendNames(c, s.Channels[key])
	}

	var strays []string
	for _, client := range s.Nicks {
		if len(s.channelsWith(client)) == 0 {
			strays = append(strays, client.Nickname)
		}
	}
	sort.Strings(strays)

	if len(strays) > 0 {
		c.messageFromServer("353", []string{"=", "*",
			strings.Join(strays, " ")})
		c.messageFromServer("366", []string{"*", "End of NAMES list"})
	}
}

// PING <token>
func (s *Server) pingCommand(c *Client, m irc.Message) {
	if len(m.Params) == 0 {
		// 461 ERR_NEEDMOREPARAMS
		c.messageFromServer("461", []string{"PING", "Not enough parameters"})
		return
	}

	// :ircserv PONG ircserv :<token>
	c.queueLine(formatReplyLine(fmt.Sprintf(":%s PONG %s :%s",
		s.Config.ServerName, s.Config.ServerName, m.Params[0])))
}

// QUIT [:<message>]
func (s *Server) quitCommand(c *Client, m irc.Message) {
	msg := "Client Quit"
	if len(m.Params) > 0 {
		msg = m.Params[0]
	}

	c.quit(msg)
}
