package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger on zerolog. Each component gets a child
// logger carrying its name, created on first use.
type ZerologAdapter struct {
	root       zerolog.Logger
	mu         sync.RWMutex
	components map[string]zerolog.Logger
}

func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	return &ZerologAdapter{
		root:       zerolog.New(writer).Level(level).With().Timestamp().Logger(),
		components: make(map[string]zerolog.Logger),
	}
}

func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	return NewZerolog(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}, level)
}

// New picks the console or JSON encoder from the configured format
func New(format, level string) *ZerologAdapter {
	if format == "json" {
		return NewZerolog(os.Stdout, ParseLevel(level))
	}
	return NewConsoleLogger(ParseLevel(level))
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	z.write(z.forComponent(component).Debug(), fields, message)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	z.write(z.forComponent(component).Info(), fields, message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	z.write(z.forComponent(component).Warn(), fields, message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	z.write(z.forComponent(component).Error().Err(err), fields, "operation failed")
}

func (z *ZerologAdapter) forComponent(component string) *zerolog.Logger {
	z.mu.RLock()
	l, ok := z.components[component]
	z.mu.RUnlock()
	if ok {
		return &l
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	if l, ok = z.components[component]; !ok {
		l = z.root.With().Str("component", component).Logger()
		z.components[component] = l
	}
	return &l
}

// write adds fields with typed setters where the value type is known.
// A nil event means the level is disabled.
func (z *ZerologAdapter) write(event *zerolog.Event, fields map[string]interface{}, message string) {
	if event == nil {
		return
	}
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			event.Str(k, val)
		case int:
			event.Int(k, val)
		case int64:
			event.Int64(k, val)
		case uint64:
			event.Uint64(k, val)
		case float64:
			event.Float64(k, val)
		case bool:
			event.Bool(k, val)
		case time.Duration:
			event.Dur(k, val)
		case error:
			event.AnErr(k, val)
		case fmt.Stringer:
			event.Stringer(k, val)
		default:
			event.Interface(k, val)
		}
	}
	event.Msg(message)
}
