package logger // import "wonderland.org/cmroll/pkg/logger"

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"
)

type level int

const (
	info level = iota
	debug
	lerror
)

func (l level) String() string {
	switch l {
	case info:
		return "INFO"
	case debug:
		return "DEBUG"
	case lerror:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type levelWriter struct {
	level level
}

// Log, Debug and Error are shadowed by convenience vars in most
// packages that use them
var (
	Log   = log.New(levelWriter{info}, "", 0)
	Debug = log.New(levelWriter{debug}, "", 0)
	Error = log.New(levelWriter{lerror}, "", 0)
)

func init() {
	DisableDebugLog()
}

func EnableDebugLog() {
	Debug.SetOutput(levelWriter{debug})
}

func DisableDebugLog() {
	Debug.SetOutput(io.Discard)
}

func (w levelWriter) Write(p []byte) (n int, err error) {
	ts := time.Now().Format(time.RFC3339)

	// results are part of the program output, not diagnostics
	switch w.level {
	case info:
		line := fmt.Sprintf("%s %s: %s", ts, w.level, p)
		return os.Stdout.Write([]byte(line))
	default:
		// 0 = here, 1 = log.Output, 2 = log.Println et al, 3 = emitter
		var fnName string = "UNKNOWN"
		pc, _, ln, ok := runtime.Caller(3)
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				fnName = fn.Name()
			}
		}

		line := fmt.Sprintf("%s %s: %s() line %d %s", ts, w.level, fnName, ln, p)
		return log.Writer().Write([]byte(line))
	}
}
