package dataset

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
	"github.com/banshee-data/synthset/internal/sequence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	SetLogger(t.Logf)
	t.Cleanup(func() { SetLogger(nil) })
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSequence(t *testing.T, n int) *sequence.Sequence {
	t.Helper()
	frames := make([]frame.Frame, n)
	for i := range frames {
		f := frame.Default()
		f.Position = geom.Vec3{X: float64(i)}
		frames[i] = f
	}
	return sequence.New(frames)
}

func TestInsertAndGetSequence(t *testing.T) {
	s := openTestStore(t)
	seq := testSequence(t, 5)
	recipe := json.RawMessage(`{"strategy":"standard"}`)

	id, err := s.InsertSequence("orbit", "standard", seq, recipe)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := s.GetSequenceRecord(id)
	require.NoError(t, err)
	require.Equal(t, "orbit", rec.Name)
	require.Equal(t, "standard", rec.Strategy)
	require.Equal(t, 5, rec.FrameCount)
	require.JSONEq(t, string(recipe), string(rec.Recipe))

	got, err := s.GetSequence(id)
	require.NoError(t, err)
	require.Equal(t, 5, got.Len())
	for i := 0; i < 5; i++ {
		require.True(t, seq.At(i).ApproxEqual(got.At(i), 1e-12), "frame %d changed in storage", i)
	}
}

func TestInsertSequenceWithoutRecipe(t *testing.T) {
	s := openTestStore(t)
	id, err := s.InsertSequence("", "interpolated", testSequence(t, 2), nil)
	require.NoError(t, err)

	rec, err := s.GetSequenceRecord(id)
	require.NoError(t, err)
	require.Empty(t, rec.Recipe)
}

func TestGetSequenceNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetSequenceRecord("no-such-id")
	require.Error(t, err)
	_, err = s.GetSequence("no-such-id")
	require.Error(t, err)
}

func TestListSequencesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	_, err := s.InsertSequence("first", "standard", testSequence(t, 1), nil)
	require.NoError(t, err)
	secondID, err := s.InsertSequence("second", "random", testSequence(t, 1), nil)
	require.NoError(t, err)

	recs, err := s.ListSequences()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, secondID, recs[0].SequenceID)
}

func TestAnnotationsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	id, err := s.InsertSequence("annotated", "standard", testSequence(t, 3), nil)
	require.NoError(t, err)

	payload := json.RawMessage(`{"rover":{"ymin":1,"ymax":4,"xmin":2,"xmax":9}}`)
	err = s.InsertAnnotation(&Annotation{
		SequenceID: id,
		FrameIndex: 1,
		Kind:       KindBoxes,
		Payload:    payload,
	})
	require.NoError(t, err)
	err = s.InsertAnnotation(&Annotation{
		SequenceID: id,
		FrameIndex: 1,
		Kind:       KindCentroids,
		Payload:    json.RawMessage(`{"rover":{"row":2.5,"col":5.5}}`),
	})
	require.NoError(t, err)

	anns, err := s.AnnotationsFor(id, 1)
	require.NoError(t, err)
	require.Len(t, anns, 2)
	require.Equal(t, KindBoxes, anns[0].Kind)
	require.JSONEq(t, string(payload), string(anns[0].Payload))
	require.NotEmpty(t, anns[0].AnnotationID)

	// Annotations are scoped to their frame.
	anns, err = s.AnnotationsFor(id, 0)
	require.NoError(t, err)
	require.Empty(t, anns)
}

func TestForeignKeyEnforced(t *testing.T) {
	s := openTestStore(t)
	err := s.InsertAnnotation(&Annotation{
		SequenceID: "missing",
		FrameIndex: 0,
		Kind:       KindRegions,
		Payload:    json.RawMessage(`[]`),
	})
	require.Error(t, err)
}
