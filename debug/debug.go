package debug

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
)

type Topic string

const (
	TKey     Topic = "KEYS"
	TEncode  Topic = "ENCD"
	TEncrypt Topic = "ENCR"
	TDecrypt Topic = "DECR"
	TSession Topic = "SESS"
	TNet     Topic = "NETW"
	TDump    Topic = "DUMP"
)

var (
	enabled int32
	dumping int32
)

func init() {
	log.SetFlags(log.Lmicroseconds)
	if os.Getenv("BLOCKGAMAL_DEBUG") != "" {
		enabled = 1
	}
	if os.Getenv("BLOCKGAMAL_DUMP") != "" {
		dumping = 1
	}
}

// IsDebug reports whether debug logging is on.
func IsDebug() bool {
	return atomic.LoadInt32(&enabled) == 1
}

// IsDump reports whether spew dumps are on. Dumps only print when debug is on too.
func IsDump() bool {
	return atomic.LoadInt32(&dumping) == 1
}

// SetDebug overrides the BLOCKGAMAL_DEBUG environment variable.
func SetDebug(on bool) {
	atomic.StoreInt32(&enabled, boolToInt(on))
}

// SetDump overrides the BLOCKGAMAL_DUMP environment variable.
func SetDump(on bool) {
	atomic.StoreInt32(&dumping, boolToInt(on))
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Logf prints a line tagged with topic and header if debugging is enabled.
func Logf(topic Topic, header string, format string, a ...interface{}) {
	if !IsDebug() {
		return
	}
	log.Printf("%v [%s] %s", topic, header, fmt.Sprintf(format, a...))
}

// Dump spews v under the dump topic. Never pass private keys here.
func Dump(header string, v interface{}) {
	if IsDebug() && IsDump() {
		Logf(TDump, header, "%s", spew.Sdump(v))
	}
}

// Assertf panics when condition is false, but only in debug mode.
func Assertf(condition bool, header string, format string, a ...interface{}) {
	if IsDebug() && !condition {
		panic(fmt.Sprintf("[%s] %s", header, fmt.Sprintf(format, a...)))
	}
}
