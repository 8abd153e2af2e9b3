package policy

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultID, cfg.ID)
	assert.False(t, cfg.HasProcessor())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{ID: "a"}, false},
		{"with processor", Config{ID: "a", ProcessorID: "p"}, false},
		{"high speed", Config{ID: "a", SessionType: SessionTypeHighSpeed}, false},
		{"missing id", Config{ProcessorID: "p"}, true},
		{"bad session type", Config{ID: "a", SessionType: "slow"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationText(t *testing.T) {
	for _, op := range Operations() {
		text, err := op.MarshalText()
		require.NoError(t, err)

		var got Operation
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, op, got)
	}

	_, err := ParseOperation("teleport")
	assert.Error(t, err)

	_, err = Operation(0).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "operation(0)", Operation(0).String())
}

func TestParseOperationIgnoresCase(t *testing.T) {
	op, err := ParseOperation(" Zoom ")
	require.NoError(t, err)
	assert.Equal(t, OperationZoom, op)
}

func TestStaticProcessorSupports(t *testing.T) {
	p := NewProcessor("night", OperationZoom, OperationTorch)

	assert.Equal(t, "night", p.ID())
	assert.True(t, p.Supports(OperationZoom))
	assert.True(t, p.Supports(OperationTorch))
	assert.False(t, p.Supports(OperationFlash))
	assert.Equal(t, []Operation{OperationZoom, OperationTorch}, p.SupportedOperations())
}

func TestResolveNilResolver(t *testing.T) {
	p, err := Resolve(nil, Config{ID: "a"})
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = Resolve(nil, Config{ID: "a", ProcessorID: "night"})
	assert.ErrorIs(t, err, ErrUnknownProcessor)
}

func TestResolverFunc(t *testing.T) {
	want := NewProcessor("x")
	var calls int
	r := ResolverFunc(func(cfg Config) (Processor, error) {
		calls++
		return want, nil
	})

	got, err := Resolve(r, Config{ID: "a"})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 1, calls)
}

func TestResolveRejectsTypedNil(t *testing.T) {
	r := ResolverFunc(func(Config) (Processor, error) {
		return (*StaticProcessor)(nil), nil
	})

	p, err := Resolve(r, Config{ID: "a", ProcessorID: "night"})
	assert.ErrorIs(t, err, ErrInvalidProcessor)
	assert.Nil(t, p)
}

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil((*StaticProcessor)(nil)))
	assert.False(t, IsNil(NewProcessor("night")))
	assert.False(t, IsNil(idProcessor("hdr")))
}

type idProcessor string

func (p idProcessor) ID() string { return string(p) }

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	night := NewProcessor("night", OperationZoom)
	require.NoError(t, r.Register(night))

	p, err := r.Resolve(Config{ID: "a", ProcessorID: "night"})
	require.NoError(t, err)
	assert.Same(t, night, p)

	p, err = r.Resolve(Config{ID: "a"})
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = r.Resolve(Config{ID: "a", ProcessorID: "hdr"})
	assert.ErrorIs(t, err, ErrUnknownProcessor)
}

func TestRegistryRegisterErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewProcessor("night")))

	assert.ErrorIs(t, r.Register(NewProcessor("night")), ErrDuplicateProcessor)
	assert.ErrorIs(t, r.Register(NewProcessor("")), ErrInvalidProcessor)
	assert.ErrorIs(t, r.Register(nil), ErrInvalidProcessor)
	assert.ErrorIs(t, r.Register((*StaticProcessor)(nil)), ErrInvalidProcessor)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewProcessor("night")))

	r.Unregister("night")

	_, ok := r.Lookup("night")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Register(NewProcessor("shared"))
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateProcessor):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 15, dup)
}

const testDocument = `
policy:
  id: vendor-night
  processor: night
  session_type: regular
  postview_supported: true
processors:
  - id: night
    operations: [zoom, torch]
  - id: hdr
`

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(testDocument))
	require.NoError(t, err)

	assert.Equal(t, "vendor-night", doc.Policy.ID)
	assert.Equal(t, "night", doc.Policy.ProcessorID)
	assert.True(t, doc.Policy.PostviewSupported)
	assert.False(t, doc.Policy.CaptureProcessProgressSupported)
	require.Len(t, doc.Processors, 2)
	assert.Equal(t, []Operation{OperationZoom, OperationTorch}, doc.Processors[0].Operations)

	reg, err := doc.Registry()
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	p, err := reg.Resolve(doc.Policy)
	require.NoError(t, err)
	filter, ok := p.(OperationFilter)
	require.True(t, ok)
	assert.True(t, filter.Supports(OperationZoom))
	assert.False(t, filter.Supports(OperationFlash))
}

func TestParseYAMLRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"unknown field", "policy:\n  id: a\n  colour: red\n"},
		{"missing id", "policy:\n  processor: night\n"},
		{"bad operation", "policy:\n  id: a\nprocessors:\n  - id: p\n    operations: [teleport]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDocumentRegistryDuplicate(t *testing.T) {
	doc := &Document{
		Policy:     Config{ID: "a"},
		Processors: []ProcessorSpec{{ID: "p"}, {ID: "p"}},
	}
	_, err := doc.Registry()
	assert.ErrorIs(t, err, ErrDuplicateProcessor)
}

func TestDocumentMarshalRoundTrip(t *testing.T) {
	doc, err := ParseYAML([]byte(testDocument))
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)

	again, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vendor-night", doc.Policy.ID)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
