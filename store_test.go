package prunetable

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	pdberrors "github.com/tamirms/prunetable/errors"
)

// writeDefinition creates a stand-in definition file and returns its path.
func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toy.def")
	if err := os.WriteFile(path, []byte("toy puzzle\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setMtime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBuildsThenReadsCache(t *testing.T) {
	ctx := context.Background()
	def := writeDefinition(t)

	first, err := Load(ctx, def, toyPuzzle())
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	rep := first.Report()
	if rep.Source != SourceBuilt || rep.Stale || rep.CacheErr != nil || rep.WriteErr != nil {
		t.Errorf("first report = %+v", rep)
	}
	if rep.Path != def+DefaultCacheSuffix {
		t.Errorf("cache path = %q", rep.Path)
	}
	if _, err := os.Stat(rep.Path); err != nil {
		t.Fatalf("cache not written: %v", err)
	}

	p := toyPuzzle()
	second, err := Load(ctx, def, p)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if got := second.Report().Source; got != SourceCache {
		t.Errorf("second Source = %v, want cache", got)
	}
	if p.Datasets[0].PermTable != TableComplete {
		t.Errorf("datasets not classified after cache read")
	}
	h1, l1 := first.Fingerprint()
	h2, l2 := second.Fingerprint()
	if h1 != h2 || l1 != l2 {
		t.Error("cached tables differ from built tables")
	}
}

// TestLoadCacheDropsDegraded pins that the degraded flag lives only on the
// build path: the cached copy of a cut-short table reports nothing.
func TestLoadCacheDropsDegraded(t *testing.T) {
	ctx := context.Background()
	def := writeDefinition(t)
	opts := []Option{
		WithCompleteLimits(0, DefaultCompleteLimit),
		WithPartialCapacity(5, DefaultPartialCapacity),
	}

	built, err := Load(ctx, def, toyPuzzle(), opts...)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	if built.Report().Source != SourceBuilt || len(built.Degraded()) == 0 {
		t.Fatalf("built: Source=%v Degraded=%v", built.Report().Source, built.Degraded())
	}

	cached, err := Load(ctx, def, toyPuzzle(), opts...)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cached.Report().Source != SourceCache {
		t.Fatalf("second Source = %v, want cache", cached.Report().Source)
	}
	if errs := cached.Degraded(); errs != nil {
		t.Errorf("cached Degraded() = %v, want nil", errs)
	}
	if got, want := cached.Group(0).PartialPermutation.Len(), built.Group(0).PartialPermutation.Len(); got != want {
		t.Errorf("cached table has %d entries, built %d", got, want)
	}
}

func TestSourceString(t *testing.T) {
	if SourceBuilt.String() != "built" || SourceCache.String() != "cache" {
		t.Errorf("got %q and %q", SourceBuilt, SourceCache)
	}
}

func TestLoadStaleCache(t *testing.T) {
	ctx := context.Background()
	def := writeDefinition(t)
	cache := def + DefaultCacheSuffix

	// A cache for a different puzzle shape, older than the definition.
	other := mustBuild(t, swapPuzzle([2]int{1, 2}))
	if err := WriteFile(cache, other); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	setMtime(t, cache, now.Add(-time.Hour))
	setMtime(t, def, now)

	ts, err := Load(ctx, def, toyPuzzle())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	rep := ts.Report()
	if rep.Source != SourceBuilt || !rep.Stale {
		t.Errorf("report = %+v, want built and stale", rep)
	}
	info, err := os.Stat(cache)
	if err != nil {
		t.Fatal(err)
	}
	if info.ModTime().Before(now.Add(-time.Minute)) {
		t.Error("stale cache was not rewritten")
	}
	if _, err := ReadFile(cache, toyPuzzle()); err != nil {
		t.Errorf("rewritten cache does not match the puzzle: %v", err)
	}
}

func TestLoadEqualMtimeIsFresh(t *testing.T) {
	ctx := context.Background()
	def := writeDefinition(t)
	if _, err := Load(ctx, def, toyPuzzle()); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Truncate(time.Second)
	setMtime(t, def, mtime)
	setMtime(t, def+DefaultCacheSuffix, mtime)

	ts, err := Load(ctx, def, toyPuzzle())
	if err != nil {
		t.Fatal(err)
	}
	if ts.Report().Source != SourceCache {
		t.Errorf("Source = %v, want cache for equal mtimes", ts.Report().Source)
	}
}

func TestLoadMalformedCacheRebuilds(t *testing.T) {
	ctx := context.Background()
	def := writeDefinition(t)
	cache := def + DefaultCacheSuffix
	if err := os.WriteFile(cache, []byte("not a table"), 0o644); err != nil {
		t.Fatal(err)
	}
	setMtime(t, def, time.Now().Add(-time.Hour))

	ts, err := Load(ctx, def, toyPuzzle())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	rep := ts.Report()
	if rep.Source != SourceBuilt || rep.Stale {
		t.Errorf("report = %+v, want built, not stale", rep)
	}
	if pdberrors.KindOf(rep.CacheErr) != pdberrors.KindMalformed {
		t.Errorf("CacheErr = %v, want a malformed-cache error", rep.CacheErr)
	}
	if _, err := ReadFile(cache, toyPuzzle()); err != nil {
		t.Errorf("cache was not replaced: %v", err)
	}
}

func TestLoadCacheDisabled(t *testing.T) {
	ctx := context.Background()
	def := writeDefinition(t)
	cache := def + DefaultCacheSuffix
	if err := os.WriteFile(cache, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := Load(ctx, def, toyPuzzle(), WithCache(false))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rep := ts.Report(); rep.Source != SourceBuilt || rep.CacheErr != nil {
		t.Errorf("report = %+v, want built without reading the cache", rep)
	}
	if _, err := ReadFile(cache, toyPuzzle()); err != nil {
		t.Errorf("cache was not rewritten: %v", err)
	}
}

func TestLoadCustomSuffix(t *testing.T) {
	def := writeDefinition(t)
	ts, err := Load(context.Background(), def, toyPuzzle(), WithCacheSuffix(".pdb"))
	if err != nil {
		t.Fatal(err)
	}
	if ts.Report().Path != def+".pdb" {
		t.Errorf("Path = %q", ts.Report().Path)
	}
	if _, err := os.Stat(def + ".pdb"); err != nil {
		t.Error(err)
	}
}

func TestLoadMissingDefinition(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "gone.def")
	built := mustBuild(t, toyPuzzle())
	if err := WriteFile(def+DefaultCacheSuffix, built); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), def, toyPuzzle())
	if !errors.Is(err, pdberrors.ErrDefinitionUnreadable) {
		t.Fatalf("err = %v, want ErrDefinitionUnreadable", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v does not carry the stat failure", err)
	}
	if pdberrors.KindOf(err) != pdberrors.KindFatal {
		t.Errorf("KindOf = %v, want fatal", pdberrors.KindOf(err))
	}
}

func TestLoadUnwritableCacheDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	def := filepath.Join(dir, "toy.def")
	if err := os.WriteFile(def, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	ts, err := Load(context.Background(), def, toyPuzzle())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ts.Report().WriteErr == nil {
		t.Error("WriteErr not recorded")
	}
	if ts.Len() != 2 {
		t.Errorf("Len() = %d", ts.Len())
	}
}
