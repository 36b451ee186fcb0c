// Package statssink implements the append-only CSV observability sink
// described in spec section 4.5: one row per processed RTP packet,
// gated by an environment variable naming a directory and by the
// instance being given a non-empty stats name.
package statssink

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvVar is the environment variable that names the stats root
// directory. It is read once, at package initialization, per spec
// section 5's "read once at init" resource policy.
const EnvVar = "KMS_RTP_SYNC_STATS_PATH"

// Header is the fixed CSV header row written to every stats file.
const Header = "ENTRY_TS,THREAD,SSRC,CLOCK_RATE,PTS_ORIG,PTS,DTS,EXT_RTP,SR_NTP_NS,SR_EXT_RTP"

var statsRootDir string

func init() {
	statsRootDir = os.Getenv(EnvVar)
}

// RootDir returns the stats root directory resolved from EnvVar at
// package init, or "" if unset.
func RootDir() string {
	return statsRootDir
}

// State is the lifecycle state of a Sink.
type State int

// Sink lifecycle states.
const (
	// Disabled: no file is open, every Write is a no-op.
	Disabled State = iota
	// Enabled: a CSV file is open and being appended to.
	Enabled
	// Fatal: creating the stats directory, opening the file, or writing
	// to it failed; the sink behaves as Disabled for the remainder of its
	// lifetime.
	Fatal
)

// Row is one observability record (spec section 4.5's 10 columns).
type Row struct {
	SSRC        uint32
	ClockRate   int
	PTSOrig     uint64
	PTS         uint64
	DTS         uint64
	ExtRTP      uint64
	SRNTPTimeNS uint64
	SRExtRTP    uint64
}

// Sink is an append-only CSV writer guarded by its own mutex,
// independent of any caller-held lock, so stats I/O never widens a
// caller's critical section.
type Sink struct {
	mutex sync.Mutex
	state State
	file  *os.File
	w     *csv.Writer
	log   zerolog.Logger
}

// New creates a Sink for the given stats name. If name is empty, or
// RootDir() is unset, the sink is created Disabled and every Write is a
// cheap no-op.
func New(name string) *Sink {
	s := &Sink{log: log.Logger}

	if name == "" || statsRootDir == "" {
		s.state = Disabled
		return s
	}

	if err := os.MkdirAll(statsRootDir, 0o755); err != nil {
		s.log.Warn().Err(err).Str("dir", statsRootDir).Msg("stats directory unavailable, disabling stats sink")
		s.state = Fatal
		return s
	}

	fileName := fmt.Sprintf("%s_%s.csv", time.Now().Local().Format("20060102150405"), name)
	path := filepath.Join(statsRootDir, fileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to open stats file, disabling stats sink")
		s.state = Fatal
		return s
	}

	w := csv.NewWriter(f)
	if err := w.Write(splitHeader()); err != nil {
		s.log.Warn().Err(err).Msg("failed to write stats header, disabling stats sink")
		f.Close()
		s.state = Fatal
		return s
	}
	w.Flush()

	s.state = Enabled
	s.file = f
	s.w = w
	return s
}

// State returns the sink's current lifecycle state.
func (s *Sink) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Write appends one row. It is a no-op unless the sink is Enabled.
func (s *Sink) Write(r Row) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != Enabled {
		return
	}

	record := []string{
		strconv.FormatInt(time.Now().UnixNano(), 10),
		strconv.FormatUint(uint64(goroutineID()), 10),
		strconv.FormatUint(uint64(r.SSRC), 10),
		strconv.Itoa(r.ClockRate),
		strconv.FormatUint(r.PTSOrig, 10),
		strconv.FormatUint(r.PTS, 10),
		strconv.FormatUint(r.DTS, 10),
		strconv.FormatUint(r.ExtRTP, 10),
		strconv.FormatUint(r.SRNTPTimeNS, 10),
		strconv.FormatUint(r.SRExtRTP, 10),
	}

	if err := s.w.Write(record); err != nil {
		s.log.Warn().Err(err).Msg("stats write failed, disabling stats sink")
		s.state = Fatal
		s.file.Close()
		return
	}
	s.w.Flush()
}

// Close flushes and closes the underlying file, if any is open.
func (s *Sink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != Enabled {
		return nil
	}

	s.w.Flush()
	err := s.file.Close()
	s.state = Disabled
	return err
}

func splitHeader() []string {
	var cols []string
	start := 0
	for i := 0; i <= len(Header); i++ {
		if i == len(Header) || Header[i] == ',' {
			cols = append(cols, Header[start:i])
			start = i + 1
		}
	}
	return cols
}

// goroutineID returns a stable numeric identifier for the calling
// goroutine, parsed out of its own stack trace. It replaces the raw
// thread-handle pointer the source logs with something that survives
// across process architectures, per the design notes' instruction to
// log a stable numeric id instead.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
