package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/chartscript/pkg/logger"
)

// DefaultConsoleSize is the number of messages kept per instance
const DefaultConsoleSize = 200

// Message is a console line written by a script
type Message struct {
	Level logger.Level
	Text  string
	Time  time.Time
}

// Console keeps the latest messages of a script
type Console struct {
	size     int
	messages []Message
}

// NewConsole creates a console keeping size messages
func NewConsole(size int) *Console {
	return &Console{size: size}
}

// Messages returns the kept messages, oldest first
func (c *Console) Messages() []Message { return c.messages }

func (c *Console) write(level logger.Level, args ...any) Message {
	m := Message{Level: level, Text: strings.TrimSuffix(fmt.Sprintln(args...), "\n"), Time: time.Now()}
	c.messages = append(c.messages, m)
	if over := len(c.messages) - c.size; over > 0 {
		c.messages = c.messages[over:]
	}
	return m
}
