package viz

import (
	"bufio"
	"errors"
	"io"
	"math"

	"github.com/benz9527/xrbtree/lib/infra"
)

// ParseKeys reads one key per line. A line is a key only when it starts
// with a digit or '-', its leading integer is taken and the rest of the
// line ignored. A line that starts right but holds no digits yields 0, a
// value beyond the int range is clamped to math.MaxInt or math.MinInt.
// Every other line is skipped, whatever its length.
func ParseKeys(r io.Reader) ([]int, error) {
	keys := make([]int, 0, 64)
	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadSlice('\n')
		isKey := len(chunk) > 0 && (isDigit(chunk[0]) || chunk[0] == '-')
		var p keyParser
		if isKey {
			p.start(chunk)
		}
		// A line longer than the buffer arrives in several chunks.
		for errors.Is(err, bufio.ErrBufferFull) {
			chunk, err = br.ReadSlice('\n')
			if isKey {
				p.feed(chunk)
			}
		}
		if isKey {
			keys = append(keys, p.value())
		}
		if errors.Is(err, io.EOF) {
			return keys, nil
		}
		if err != nil {
			return nil, infra.WrapErrorStack(err, "read keys")
		}
	}
}

// Load parses r straight into kt and returns how many keys were new.
func Load(r io.Reader, kt *KeyTree) (int, error) {
	keys, err := ParseKeys(r)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, key := range keys {
		if kt.Insert(key) {
			inserted++
		}
	}
	return inserted, nil
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// keyParser accumulates the leading integer of a line chunk by chunk. The
// magnitude saturates at the int limit of its sign.
type keyParser struct {
	neg     bool
	stopped bool
	limit   uint64
	mag     uint64
}

func (p *keyParser) start(chunk []byte) {
	p.limit = math.MaxInt
	if len(chunk) > 0 && chunk[0] == '-' {
		p.neg, p.limit = true, uint64(math.MaxInt)+1
		chunk = chunk[1:]
	}
	p.feed(chunk)
}

func (p *keyParser) feed(chunk []byte) {
	for _, b := range chunk {
		if p.stopped {
			return
		}
		if !isDigit(b) {
			p.stopped = true
			return
		}
		d := uint64(b - '0')
		if p.mag > (p.limit-d)/10 {
			p.mag = p.limit
		} else {
			p.mag = p.mag*10 + d
		}
	}
}

func (p *keyParser) value() int {
	if !p.neg {
		return int(p.mag)
	}
	if p.mag == uint64(math.MaxInt)+1 {
		return math.MinInt
	}
	return -int(p.mag)
}
