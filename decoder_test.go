package pixelterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedString pushes every byte of input through the decoder and
// collects the commands, the way the input loop does.
func feedString(d *Decoder, input string) []Command {
	var cmds []Command
	for i := 0; i < len(input); i++ {
		cmds = append(cmds, d.Feed(input[i])...)
	}
	return cmds
}

func TestDecoderSingleKeys(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want Command
	}{
		{"quit", 'q', CmdQuit},
		{"ctrl-c", 0x03, CmdForceQuit},
		{"previous", 'a', CmdPrevious},
		{"next", 'd', CmdNext},
		{"toggle info", 'i', CmdToggleInfo},
		{"rescan", 'r', CmdRescan},
		{"delete", 'x', CmdDeleteRequest},
		{"confirm yes", 'y', CmdConfirmYes},
		{"confirm no", 'n', CmdConfirmNo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			cmds := d.Feed(tt.b)
			require.Len(t, cmds, 1)
			assert.Equal(t, tt.want, cmds[0])
			assert.False(t, d.Pending())
		})
	}
}

func TestDecoderEscapeSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Command
	}{
		{"right arrow", "\x1b[C", []Command{CmdNext}},
		{"left arrow", "\x1b[D", []Command{CmdPrevious}},
		{"up arrow", "\x1b[A", []Command{CmdUp}},
		{"down arrow", "\x1b[B", []Command{CmdDown}},
		{"ss3 right arrow", "\x1bOC", []Command{CmdNext}},
		{"ss3 left arrow", "\x1bOD", []Command{CmdPrevious}},
		{"right arrow with modifier", "\x1b[1;5C", []Command{CmdNext}},
		{"delete key", "\x1b[3~", []Command{CmdDeleteRequest}},
		{"page up ignored", "\x1b[5~", nil},
		{"home ignored", "\x1b[H", nil},
		{"ss3 non-arrow ignored", "\x1bOP", nil},
		{"back to back arrows", "\x1b[C\x1b[D", []Command{CmdNext, CmdPrevious}},
		{"arrow between plain keys", "d\x1b[Ca", []Command{CmdNext, CmdNext, CmdPrevious}},
		{"double escape then arrow", "\x1b\x1b[C", []Command{CmdNext}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			got := feedString(d, tt.input)
			assert.Equal(t, tt.want, got)
			assert.False(t, d.Pending(), "decoder should return to idle")
		})
	}
}

func TestDecoderPartialSequencePending(t *testing.T) {
	d := NewDecoder()

	assert.Empty(t, d.Feed(0x1b))
	assert.True(t, d.Pending())

	assert.Empty(t, d.Feed('['))
	assert.True(t, d.Pending())

	cmds := d.Feed('C')
	require.Len(t, cmds, 1)
	assert.Equal(t, CmdNext, cmds[0])
	assert.False(t, d.Pending())
}

func TestDecoderFlushAbandonsSequence(t *testing.T) {
	d := NewDecoder()

	// a lone ESC press: the timeout fires and the sequence is dropped
	assert.Empty(t, d.Feed(0x1b))
	assert.True(t, d.Pending())
	assert.Empty(t, d.Flush())
	assert.False(t, d.Pending())

	// input keeps working afterwards
	cmds := d.Feed('q')
	require.Len(t, cmds, 1)
	assert.Equal(t, CmdQuit, cmds[0])
}

func TestDecoderEscapeThenPlainKey(t *testing.T) {
	// ESC followed by a non-introducer: the ESC is dropped and the
	// following byte decodes on its own
	d := NewDecoder()
	assert.Empty(t, d.Feed(0x1b))
	cmds := d.Feed('q')
	require.Len(t, cmds, 1)
	assert.Equal(t, CmdQuit, cmds[0])
	assert.False(t, d.Pending())
}

func TestDecoderIgnoresUnmappedBytes(t *testing.T) {
	d := NewDecoder()
	for _, b := range []byte{'z', 'Q', 'A', '0', ' ', 0x00, 0x7f, '\t'} {
		assert.Empty(t, d.Feed(b), "byte %q should decode to nothing", b)
		assert.False(t, d.Pending())
	}

	cmds := d.Feed('d')
	require.Len(t, cmds, 1)
	assert.Equal(t, CmdNext, cmds[0])
}

func TestDecoderOverlongSequenceDiscarded(t *testing.T) {
	d := NewDecoder()
	d.Feed(0x1b)
	d.Feed('[')
	var got []Command
	for i := 0; i < 20; i++ {
		got = append(got, d.Feed('1')...)
	}
	assert.Empty(t, got)
	assert.False(t, d.Pending())

	// recovery: the next arrow decodes normally
	assert.Equal(t, []Command{CmdNext}, feedString(d, "\x1b[C"))
}

func TestDecoderCSIGarbageByte(t *testing.T) {
	// a byte outside the CSI grammar aborts the sequence silently
	d := NewDecoder()
	d.Feed(0x1b)
	d.Feed('[')
	assert.Empty(t, d.Feed(0x01))
	assert.False(t, d.Pending())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "next", CmdNext.String())
	assert.Equal(t, "force-quit", CmdForceQuit.String())
	assert.Equal(t, "delete-request", CmdDeleteRequest.String())
	assert.Equal(t, "unknown", Command(99).String())
}

func BenchmarkDecoderFeed(b *testing.B) {
	d := NewDecoder()
	input := []byte("d\x1b[C\x1b[Da\x1b[1;5Cq")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range input {
			d.Feed(c)
		}
	}
}
