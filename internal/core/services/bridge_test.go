package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewire-labs/txconn/internal/core/domain"
	"github.com/tradewire-labs/txconn/internal/stream"
	"github.com/tradewire-labs/txconn/internal/txctest"
)

func TestSubscribe_DeliversAndReleases(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	var got []string
	require.True(t, c.Subscribe(func(buf *domain.Buffer) {
		got = append(got, buf.String())
	}))

	fake.Deliver("<markets/>")
	fake.Deliver("<securities/>")

	assert.Equal(t, []string{"<markets/>", "<securities/>"}, got)
	// Each delivery buffer was released after its handler returned.
	assert.Equal(t, 2, fake.Frees())
	assert.Zero(t, fake.LiveBuffers())
	assert.Zero(t, fake.DoubleFrees())
}

func TestSubscribe_ReplacementSwitchesHandler(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	var first, second []string
	require.True(t, c.Subscribe(func(buf *domain.Buffer) { first = append(first, buf.String()) }))
	fake.Deliver("<a/>")

	require.True(t, c.Subscribe(func(buf *domain.Buffer) { second = append(second, buf.String()) }))
	fake.Deliver("<b/>")

	assert.Equal(t, []string{"<a/>"}, first)
	assert.Equal(t, []string{"<b/>"}, second)
}

func TestSubscribe_FailedRegistrationKeepsOldHandler(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	var got []string
	require.True(t, c.Subscribe(func(buf *domain.Buffer) { got = append(got, buf.String()) }))

	fake.FailSetCallback = true
	assert.False(t, c.Subscribe(func(*domain.Buffer) {
		t.Error("handler installed despite failed registration")
	}))
	fake.FailSetCallback = false

	fake.Deliver("<still-first/>")
	assert.Equal(t, []string{"<still-first/>"}, got)
}

func TestSubscribe_ReplacementFromInsideHandler(t *testing.T) {
	// Registration is serialised by the module; replacing the handler
	// while a delivery with the old one is mid-dispatch must neither drop
	// the in-flight delivery nor route it to the new handler.
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	var first, second []string
	require.True(t, c.Subscribe(func(buf *domain.Buffer) {
		first = append(first, buf.String())
		c.Subscribe(func(buf *domain.Buffer) { second = append(second, buf.String()) })
	}))

	fake.Deliver("<during/>")
	fake.Deliver("<after/>")

	assert.Equal(t, []string{"<during/>"}, first)
	assert.Equal(t, []string{"<after/>"}, second)
}

func TestInput_ComposedPipeline(t *testing.T) {
	fake := txctest.New()
	c := newTestConnector(t, fake)
	defer c.Close()

	var got []string
	text := stream.Map(c.Input(), func(buf *domain.Buffer) string { return buf.String() })
	results := stream.Filter(text, func(s string) bool {
		return len(s) > 1 && s[1] == 'r'
	})
	results.Subscribe(func(s string) { got = append(got, s) })

	fake.Deliver("<result success=\"true\"/>")
	fake.Deliver("<candles/>")
	fake.Deliver("<result success=\"false\"></result>")

	assert.Equal(t, []string{
		`<result success="true"/>`,
		`<result success="false"></result>`,
	}, got)
	// Buffers of filtered-out deliveries are released too.
	assert.Equal(t, 3, fake.Frees())
	assert.Zero(t, fake.LiveBuffers())
}
