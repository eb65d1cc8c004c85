package service

import "strings"

const assistantLabel = "assistant: "

// CleanAssistantReply quita la etiqueta "assistant: " inicial y un único salto de línea final.
func CleanAssistantReply(raw string) string {
	s := strings.TrimPrefix(raw, assistantLabel)
	return strings.TrimSuffix(s, "\n")
}

// replyStreamCleaner aplica CleanAssistantReply sobre fragmentos sin depender de dónde se corten.
// Retiene el inicio hasta decidir si es la etiqueta y retiene siempre el último "\n" pendiente.
type replyStreamCleaner struct {
	emit           func(string) error
	head           strings.Builder
	headDone       bool
	pendingNewline bool
}

func newReplyStreamCleaner(emit func(string) error) *replyStreamCleaner {
	return &replyStreamCleaner{emit: emit}
}

func (c *replyStreamCleaner) Write(fragment string) error {
	if !c.headDone {
		c.head.WriteString(fragment)
		h := c.head.String()
		if len(h) < len(assistantLabel) && strings.HasPrefix(assistantLabel, h) {
			return nil
		}
		c.headDone = true
		fragment = strings.TrimPrefix(h, assistantLabel)
	}
	return c.push(fragment)
}

// Close vacía lo retenido. El "\n" final pendiente se descarta.
func (c *replyStreamCleaner) Close() error {
	if c.headDone {
		return nil
	}
	c.headDone = true
	return c.push(c.head.String())
}

func (c *replyStreamCleaner) push(s string) error {
	if s == "" {
		return nil
	}
	if c.pendingNewline {
		s = "\n" + s
		c.pendingNewline = false
	}
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
		c.pendingNewline = true
	}
	if s == "" {
		return nil
	}
	return c.emit(s)
}
