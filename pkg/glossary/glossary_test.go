package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_LoadJSON(t *testing.T) {
	path := writeTempFile(t, "glossary.json",
		`[{"cn":"冒险者","en":"Adventurers"},{"cn":"钻石","en":"Diamonds"}]`)

	store := NewStore(path, nil)
	terms := store.Load()

	require.Len(t, terms, 2)
	assert.Equal(t, "冒险者", terms[0].CN)
	assert.Equal(t, "Adventurers", terms[0].EN)
	assert.Equal(t, 2, store.Len())
}

func TestStore_LoadTOML(t *testing.T) {
	path := writeTempFile(t, "glossary.toml", `
[[terms]]
cn = "副本"
en = "Dungeon"

[[terms]]
cn = "体力药水"
en = "Stamina Potion"
`)

	store := NewStore(path, nil)
	terms := store.Load()

	require.Len(t, terms, 2)
	assert.Equal(t, "副本", terms[0].CN)
	assert.Equal(t, "Stamina Potion", terms[1].EN)
}

func TestStore_MissingOrCorruptFile(t *testing.T) {
	t.Run("missing file yields empty glossary", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "nope.json"), nil)
		assert.Empty(t, store.Load())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("corrupt json yields empty glossary", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{not json`)
		store := NewStore(path, nil)
		assert.Empty(t, store.Load())
	})

	t.Run("corrupt toml yields empty glossary", func(t *testing.T) {
		path := writeTempFile(t, "bad.toml", `[[terms`)
		store := NewStore(path, nil)
		assert.Empty(t, store.Load())
	})
}

func TestStore_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"cn":"冒险者","en":"Adventurers"}]`), 0o644))

	store := NewStore(path, nil)
	assert.Equal(t, 1, store.Len())

	// 文件更新后 Load 仍返回缓存，Reload 才看到新内容
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"cn":"冒险者","en":"Adventurers"},{"cn":"钻石","en":"Diamonds"}]`), 0o644))
	assert.Equal(t, 1, len(store.Load()))

	terms := store.Reload()
	assert.Len(t, terms, 2)
	assert.Equal(t, 2, store.Len())
}

func TestStore_Find(t *testing.T) {
	path := writeTempFile(t, "glossary.json",
		`[{"cn":"冒险者","en":"Adventurers"},{"cn":"钻石","en":"Diamonds"},{"cn":"体力药水","en":"Stamina Potion"}]`)
	store := NewStore(path, nil)

	t.Run("exact match", func(t *testing.T) {
		term, ok := store.Find("钻石")
		require.True(t, ok)
		assert.Equal(t, "Diamonds", term.EN)
	})

	t.Run("substring match inside query", func(t *testing.T) {
		term, ok := store.Find("亲爱的冒险者们")
		require.True(t, ok)
		assert.Equal(t, "Adventurers", term.EN)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := store.Find("xyz")
		assert.False(t, ok)
	})
}

func TestStore_Apply(t *testing.T) {
	// 长词在前避免"体力"先于"体力药水"被替换
	path := writeTempFile(t, "glossary.json",
		`[{"cn":"体力","en":"Stamina"},{"cn":"体力药水","en":"Stamina Potion"}]`)
	store := NewStore(path, nil)

	got := store.Apply("使用体力药水恢复体力")
	assert.Equal(t, "使用Stamina Potion恢复Stamina", got)
}

func TestStore_ExtractTerms(t *testing.T) {
	path := writeTempFile(t, "glossary.json",
		`[{"cn":"冒险者","en":"Adventurers"},{"cn":"钻石","en":"Diamonds"},{"cn":"副本","en":"Dungeon"}]`)
	store := NewStore(path, nil)

	found := store.ExtractTerms("亲爱的冒险者，副本奖励已发放")
	require.Len(t, found, 2)
	assert.Equal(t, "冒险者", found[0].CN)
	assert.Equal(t, "副本", found[1].CN)
}
