package internal

import (
	"image"
	stdpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.png"), pngBytes(t, 8, 4), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.PNG"), pngBytes(t, 6, 6), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0755))
}

func runBatch(p *Processor) []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}

func TestNewBatchProcessor(t *testing.T) {
	t.Run("invalid pool size", func(t *testing.T) {
		p, err := NewBatchProcessor(t.TempDir(), t.TempDir(), 0, glass.DefaultParams())
		assert.Nil(t, p)
		assert.EqualError(t, err, "pool size must be at least 1")
	})

	t.Run("invalid params", func(t *testing.T) {
		p, err := NewBatchProcessor(t.TempDir(), t.TempDir(), 1, glass.Params{ReedWidth: -1})
		assert.Nil(t, p)
		assert.ErrorIs(t, err, glass.ErrInvalidParameter)
	})

	t.Run("empty directory", func(t *testing.T) {
		p, err := NewBatchProcessor(t.TempDir(), t.TempDir(), 1, glass.DefaultParams())
		assert.Nil(t, p)
		assert.EqualError(t, err, "no images to process")
	})

	t.Run("only supported files are queued", func(t *testing.T) {
		in := t.TempDir()
		writeInputs(t, in)
		p, err := NewBatchProcessor(in, t.TempDir(), 2, glass.DefaultParams())
		require.NoError(t, err)
		assert.Len(t, p.files, 2)
	})
}

func TestProcessor_ProcessesAllImages(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "rendered")
	writeInputs(t, in)

	p, err := NewBatchProcessor(in, out, 3, glass.Params{BlurRadius: 1, ReedWidth: 4, Amplitude: 2, LightingIntensity: 10})
	require.NoError(t, err)
	assert.Empty(t, runBatch(p))

	for name, size := range map[string]image.Rectangle{
		"one.png": image.Rect(0, 0, 8, 4),
		"two.png": image.Rect(0, 0, 6, 6),
	} {
		f, err := os.Open(filepath.Join(out, name))
		require.NoError(t, err)
		img, err := stdpng.Decode(f)
		require.NoError(t, f.Close())
		require.NoError(t, err)
		assert.Equal(t, size, img.Bounds(), name)
	}

	leftovers, err := filepath.Glob(filepath.Join(out, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestProcessor_SkipsExistingOutput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in)
	existing := filepath.Join(out, "one.png")
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0644))

	p, err := NewBatchProcessor(in, out, 1, glass.DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, runBatch(p))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestProcessor_CollectsErrors(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in)
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.jpg"), []byte("not a jpeg"), 0644))

	p, err := NewBatchProcessor(in, out, 2, glass.DefaultParams())
	require.NoError(t, err)

	errs := runBatch(p)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken.jpg")
}

func TestProcessor_MaxJobs(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in)

	p, err := NewBatchProcessor(in, out, 1, glass.DefaultParams())
	require.NoError(t, err)
	p.maxJobs = 1
	assert.Empty(t, runBatch(p))

	rendered, err := filepath.Glob(filepath.Join(out, "*.png"))
	require.NoError(t, err)
	assert.Len(t, rendered, 1)
}
