package flash

import (
	"encoding/gob"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Error   Level = "error"
)

// Message is a one-shot notice shown after a redirect.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func init() {
	gob.Register(Message{})
}

// Add queues a message in the session cookie.
func Add(c *gin.Context, level Level, text string) {
	session := sessions.Default(c)
	session.AddFlash(Message{Level: level, Text: text})
	if err := session.Save(); err != nil {
		log.Printf("flash save failed: %v", err)
	}
}

// Drain returns and clears every queued message.
func Drain(c *gin.Context) []Message {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return []Message{}
	}
	if err := session.Save(); err != nil {
		log.Printf("flash save failed: %v", err)
	}

	out := make([]Message, 0, len(raw))
	for _, item := range raw {
		if msg, ok := item.(Message); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Redirect queues a message and answers with 302 Found.
func Redirect(c *gin.Context, location string, level Level, text string) {
	Add(c, level, text)
	c.Redirect(http.StatusFound, location)
}
