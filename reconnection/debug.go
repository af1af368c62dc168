/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package reconnection

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type logger struct {
	name      string
	out       io.Writer
	callDepth int
	mu        sync.Mutex
}

var (
	internalLogger = newLogger("[Reconnection]", os.Stdout)
	level          atomic.Int32

	magenta = string([]byte{27, 91, 57, 53, 109}) // Trace
	green   = string([]byte{27, 91, 57, 50, 109}) // Debug
	blue    = string([]byte{27, 91, 57, 52, 109}) // Info
	yellow  = string([]byte{27, 91, 57, 51, 109}) // Warn
	red     = string([]byte{27, 91, 57, 49, 109}) // Error
	reset   = string([]byte{27, 91, 48, 109})

	colors = []string{
		magenta,
		green,
		blue,
		yellow,
		red,
	}

	levelName = []string{
		"Trace",
		"Debug",
		"Info",
		"Warn",
		"Error",
	}
)

const (
	levelTrace = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
	levelNoPrint
)

func init() {
	level.Store(levelInfo)
	if os.Getenv("RECONNECT_LOG_LEVEL") != "" {
		if n, err := strconv.Atoi(os.Getenv("RECONNECT_LOG_LEVEL")); err == nil {
			if n >= levelTrace && n <= levelNoPrint {
				level.Store(int32(n))
			}
		}
	}
}

// SetLogLevel changes the level of every supervisor logger. The default is Info
// and the process env `RECONNECT_LOG_LEVEL` (0=Trace .. 5=silent) also sets it.
func SetLogLevel(l int) {
	if l >= levelTrace && l <= levelNoPrint {
		level.Store(int32(l))
	}
}

func enabled(l int) bool {
	return int(level.Load()) <= l
}

func newLogger(name string, out io.Writer) *logger {
	if out == nil {
		out = os.Stdout
	}
	return &logger{
		name:      name,
		out:       out,
		callDepth: 3,
	}
}

func (l *logger) write(lvl int, format string, a ...interface{}) {
	line := l.prefix(lvl) + fmt.Sprintf(format, a...) + reset + "\n"
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.out, line); err != nil {
		fmt.Fprintf(os.Stderr, "logger write failed: %v\n", err)
	}
}

func (l *logger) errorf(format string, a ...interface{}) {
	if !enabled(levelError) {
		return
	}
	l.write(levelError, format, a...)
}

func (l *logger) warnf(format string, a ...interface{}) {
	if !enabled(levelWarn) {
		return
	}
	l.write(levelWarn, format, a...)
}

func (l *logger) infof(format string, a ...interface{}) {
	if !enabled(levelInfo) {
		return
	}
	l.write(levelInfo, format, a...)
}

func (l *logger) debugf(format string, a ...interface{}) {
	if !enabled(levelDebug) {
		return
	}
	l.write(levelDebug, format, a...)
}

func (l *logger) tracef(format string, a ...interface{}) {
	if !enabled(levelTrace) {
		return
	}
	l.write(levelTrace, format, a...)
}

func (l *logger) prefix(level int) string {
	var buffer [64]byte
	buf := bytes.NewBuffer(buffer[:0])
	_, _ = buf.WriteString(colors[level])
	_, _ = buf.WriteString(levelName[level])
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(time.Now().Format("2006-01-02 15:04:05.999999"))
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.location())
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(l.name)
	_ = buf.WriteByte(' ')
	return buf.String()
}

// location reports the caller of errorf/infof/...: location <- prefix <- write <- xxxf <- caller.
func (l *logger) location() string {
	_, file, line, ok := runtime.Caller(l.callDepth + 1)
	if !ok {
		file = "???"
		line = 0
	}
	file = filepath.Base(file)
	return file + ":" + strconv.Itoa(line)
}
