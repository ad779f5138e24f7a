package announce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-announce-bot/pkg/glossary"
	"github.com/nerdneilsfield/go-announce-bot/pkg/providers"
)

// Service 串联一次完整的生成流水线：
// 表单字段提取 → 提示词构建 → 生成请求 → 结果解析。
// 每次调用顺序执行，生成请求是唯一的阻塞 I/O。
type Service struct {
	provider providers.Generator
	glossary *glossary.Store
	prompts  *PromptBuilder
	sessions *SessionStore
	logger   *zap.Logger
	timeout  time.Duration
}

// NewService 创建生成服务。timeout<=0 使用 60 秒。
func NewService(provider providers.Generator, store *glossary.Store, prompts *PromptBuilder, sessions *SessionStore, logger *zap.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prompts == nil {
		prompts = NewPromptBuilder("", "")
	}
	if sessions == nil {
		sessions = NewSessionStore(0, 0)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		provider: provider,
		glossary: store,
		prompts:  prompts,
		sessions: sessions,
		logger:   logger,
		timeout:  timeout,
	}
}

// Sessions 返回会话存储
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// Generate 执行一次公告生成。raw 为表单原始提交值（block ID → 值）。
func (s *Service) Generate(ctx context.Context, typ Type, raw map[string]string) (Result, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("type", string(typ)))

	if s.provider == nil {
		return Result{}, ErrNoProvider
	}

	data, err := ExtractFields(typ, raw)
	if err != nil {
		return Result{}, WrapError(err, ErrCodeValidation, "invalid announcement type")
	}

	terms := s.glossaryTerms()
	userPrompt, err := s.prompts.BuildAnnouncementPrompt(typ, data, terms)
	if err != nil {
		return Result{}, WrapError(err, ErrCodeValidation, "failed to build prompt")
	}

	log.Info("开始生成公告", zap.Int("glossary_terms", len(terms)))

	rawText, err := s.generate(ctx, s.prompts.SystemPrompt(), userPrompt)
	if err != nil {
		log.Error("生成公告失败", zap.Error(err))
		return Result{}, err
	}

	result := ParseResult(rawText)
	log.Info("公告生成完成",
		zap.Int("cn_title_len", len(result.CNTitle)),
		zap.Int("en_title_len", len(result.ENTitle)))

	return result, nil
}

// ReTranslate 在中文被编辑后重新翻译英文部分。
// 中文字段原样透传；英文解析失败时回退到原英文字段。
func (s *Service) ReTranslate(ctx context.Context, typ Type, cnTitle, cnContent string, original Result) (Result, error) {
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.String("type", string(typ)))

	if s.provider == nil {
		return Result{}, ErrNoProvider
	}

	terms := s.glossaryTerms()
	originalEnglish := fmt.Sprintf("Title: %s\nContent: %s", original.ENTitle, original.ENContent)

	log.Info("开始重新翻译")

	rawText, err := s.generate(ctx,
		s.prompts.ReTranslateSystemPrompt(terms),
		s.prompts.BuildReTranslatePrompt(cnTitle, cnContent, originalEnglish))
	if err != nil {
		log.Error("重新翻译失败", zap.Error(err))
		return Result{}, err
	}

	result := ParseReTranslation(rawText, cnTitle, cnContent, original)
	log.Info("重新翻译完成")

	return result, nil
}

// Remember 在生成成功后记录会话状态，返回会话键
func (s *Service) Remember(userID string, typ Type, result Result, data FormData) string {
	return s.sessions.Put(userID, PendingForm{
		Type:     typ,
		Result:   result,
		FormData: data,
	})
}

// generate 为生成请求套上有界超时并归一化错误
func (s *Service) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rawText, err := s.provider.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		var transportErr *providers.TransportError
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return "", WrapError(err, ErrCodeTimeout, "generation timed out")
		case errors.As(err, &transportErr):
			return "", WrapError(err, ErrCodeNetwork, "generation request failed")
		default:
			return "", WrapError(err, ErrCodeGeneration, "generation failed")
		}
	}

	if rawText == "" {
		return "", WrapError(ErrEmptyResponse, ErrCodeGeneration, "generation failed")
	}

	return rawText, nil
}

func (s *Service) glossaryTerms() []glossary.Term {
	if s.glossary == nil {
		return nil
	}
	return s.glossary.Load()
}
