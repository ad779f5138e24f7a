// Package glossary 维护游戏术语表（中英对照），用于约束生成文案的术语翻译。
package glossary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Term 术语条目，加载后不可变
type Term struct {
	CN string `json:"cn" toml:"cn"`
	EN string `json:"en" toml:"en"`
}

// tomlFile TOML 格式术语表文件结构（[[terms]] 块）
type tomlFile struct {
	Terms []Term `toml:"terms"`
}

// Store 术语表缓存。首次访问时加载，显式 Reload 原子替换。
type Store struct {
	path   string
	logger *zap.Logger

	mu     sync.RWMutex
	terms  []Term
	loaded bool
}

// NewStore 创建术语表缓存，path 指向 JSON 数组或 TOML 文件
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Load 返回术语列表，首次调用读取文件并缓存。
// 文件缺失或损坏只记录警告并返回空表，不阻断生成流程。
func (s *Store) Load() []Term {
	s.mu.RLock()
	if s.loaded {
		terms := s.terms
		s.mu.RUnlock()
		return terms
	}
	s.mu.RUnlock()

	return s.Reload()
}

// Reload 重新读取术语表并原子替换缓存
func (s *Store) Reload() []Term {
	terms := s.readFile()

	s.mu.Lock()
	s.terms = terms
	s.loaded = true
	s.mu.Unlock()

	return terms
}

// Len 返回缓存中的术语数量（触发加载）
func (s *Store) Len() int {
	return len(s.Load())
}

func (s *Store) readFile() []Term {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("无法读取术语表文件，使用空术语表",
			zap.String("path", s.path), zap.Error(err))
		return []Term{}
	}

	var terms []Term
	if strings.EqualFold(filepath.Ext(s.path), ".toml") {
		var f tomlFile
		if err := toml.Unmarshal(data, &f); err != nil {
			s.logger.Warn("术语表 TOML 解析失败，使用空术语表",
				zap.String("path", s.path), zap.Error(err))
			return []Term{}
		}
		terms = f.Terms
	} else {
		if err := json.Unmarshal(data, &terms); err != nil {
			s.logger.Warn("术语表 JSON 解析失败，使用空术语表",
				zap.String("path", s.path), zap.Error(err))
			return []Term{}
		}
	}

	// 统一做 NFC 规范化，避免组合字符导致匹配失败
	for i := range terms {
		terms[i].CN = norm.NFC.String(terms[i].CN)
		terms[i].EN = norm.NFC.String(terms[i].EN)
	}

	s.logger.Info("术语表加载完成", zap.String("path", s.path), zap.Int("terms", len(terms)))
	return terms
}

// Find 按中文查找术语：先精确匹配，再子串包含，最后模糊匹配兜底
func (s *Store) Find(cn string) (Term, bool) {
	terms := s.Load()
	cn = norm.NFC.String(cn)

	for _, t := range terms {
		if t.CN == cn {
			return t, true
		}
	}

	for _, t := range terms {
		if t.CN != "" && strings.Contains(cn, t.CN) {
			return t, true
		}
	}

	targets := make([]string, len(terms))
	for i, t := range terms {
		targets[i] = t.CN
	}
	ranks := fuzzy.RankFindNormalizedFold(cn, targets)
	if len(ranks) == 0 {
		return Term{}, false
	}
	sort.Sort(ranks)
	best := ranks[0]
	return terms[best.OriginalIndex], true
}

// Apply 将文本中出现的中文术语替换为英文译名，长词优先避免部分替换
func (s *Store) Apply(text string) string {
	terms := append([]Term(nil), s.Load()...)
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i].CN) > len(terms[j].CN)
	})

	for _, t := range terms {
		if t.CN != "" && t.EN != "" {
			text = strings.ReplaceAll(text, t.CN, t.EN)
		}
	}
	return text
}

// ExtractTerms 返回文本中出现过的所有术语，保持术语表顺序
func (s *Store) ExtractTerms(text string) []Term {
	var found []Term
	for _, t := range s.Load() {
		if t.CN != "" && strings.Contains(text, t.CN) {
			found = append(found, t)
		}
	}
	return found
}
