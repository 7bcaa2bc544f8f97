package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BachaBajceps/HackNation2025-sub000/internal/dto"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/model"
	"github.com/BachaBajceps/HackNation2025-sub000/internal/repository"
)

// ── 表单模块业务错误 ──

var (
	ErrDraftNotFound    = errors.New("表单不存在")
	ErrDraftNotEditable = errors.New("仅 draft 状态的表单可编辑或删除")
	ErrDraftValidation  = errors.New("表单输入校验失败")
)

// DraftService 预算表单行业务接口
// 行为约束：创建要求任务处于 active；更新/删除要求行处于 draft 状态；
// 列表一律按创建时间倒序
type DraftService interface {
	Create(ctx context.Context, req *dto.CreateDraftRequest) (*model.DraftLine, error)
	GetByID(ctx context.Context, id string) (*model.DraftLine, error)
	List(ctx context.Context, req *dto.DraftListRequest) ([]model.DraftLine, error)
	ListForDepartment(ctx context.Context, taskID, departmentID, status string) ([]model.DraftLine, error)
	Update(ctx context.Context, id string, req *dto.UpdateDraftRequest) (*model.DraftLine, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type draftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDraftService 创建 DraftService 实例
func NewDraftService(repo *repository.Repository, logger *zap.Logger) DraftService {
	return &draftService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *draftService) Create(ctx context.Context, req *dto.CreateDraftRequest) (*model.DraftLine, error) {
	task, err := s.repo.Task.GetByID(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("task_id", req.TaskID), zap.Error(err))
		return nil, err
	}
	if !task.IsActive() {
		return nil, ErrTaskNotActive
	}

	line := &model.DraftLine{
		TaskID:       req.TaskID,
		DepartmentID: req.DepartmentID,
		Status:       model.DraftStatusDraft,
		TaskVersion:  task.Version, // 新行始终挂在任务当前版本
	}
	applyDraftFields(line, &req.DraftFields)

	if err := s.repo.Draft.Create(ctx, line); err != nil {
		s.logger.Error("创建表单失败", zap.Error(err))
		return nil, err
	}

	return line, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *draftService) GetByID(ctx context.Context, id string) (*model.DraftLine, error) {
	line, err := s.repo.Draft.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		s.logger.Error("查询表单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return line, nil
}

func (s *draftService) List(ctx context.Context, req *dto.DraftListRequest) ([]model.DraftLine, error) {
	filters := &repository.DraftListFilters{
		TaskID:             req.TaskID,
		DepartmentID:       req.DepartmentID,
		KodRozdzialu:       req.KodRozdzialu,
		KodParagrafu:       req.KodParagrafu,
		KodDzialania:       req.KodDzialania,
		Kategoria:          req.Kategoria,
		Priorytet:          req.Priorytet,
		TypWydatku:         req.TypWydatku,
		ZrodloFinansowania: req.ZrodloFinansowania,
	}
	if req.Status != "" {
		status, err := model.ParseDraftStatus(req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDraftValidation, err)
		}
		filters.Status = status
	}
	return s.repo.Draft.List(ctx, filters)
}

func (s *draftService) ListForDepartment(ctx context.Context, taskID, departmentID, status string) ([]model.DraftLine, error) {
	var parsed model.DraftStatus
	if status != "" {
		st, err := model.ParseDraftStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDraftValidation, err)
		}
		parsed = st
	}
	return s.repo.Draft.ListForDepartment(ctx, taskID, departmentID, parsed)
}

// ────────────────────── Update ──────────────────────

func (s *draftService) Update(ctx context.Context, id string, req *dto.UpdateDraftRequest) (*model.DraftLine, error) {
	line, err := s.repo.Draft.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		s.logger.Error("查询表单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !line.IsEditable() {
		return nil, ErrDraftNotEditable
	}

	applyDraftFields(line, &req.DraftFields)

	if err := s.repo.Draft.Update(ctx, line); err != nil {
		s.logger.Error("更新表单失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return line, nil
}

// ────────────────────── Delete ──────────────────────

func (s *draftService) Delete(ctx context.Context, id string) (bool, error) {
	line, err := s.repo.Draft.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logger.Error("查询表单失败", zap.String("id", id), zap.Error(err))
		return false, err
	}
	if !line.IsEditable() {
		return false, ErrDraftNotEditable
	}

	ok, err := s.repo.Draft.Delete(ctx, id)
	if err != nil {
		s.logger.Error("删除表单失败", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return ok, nil
}

// ── 内部辅助方法 ──

// applyDraftFields 仅覆盖请求中出现的字段（指针非 nil）
func applyDraftFields(line *model.DraftLine, f *dto.DraftFields) {
	if f.KodRozdzialu != nil {
		line.KodRozdzialu = *f.KodRozdzialu
	}
	if f.KodParagrafu != nil {
		line.KodParagrafu = *f.KodParagrafu
	}
	if f.KodDzialania != nil {
		line.KodDzialania = *f.KodDzialania
	}
	if f.NazwaZadania != nil {
		line.NazwaZadania = *f.NazwaZadania
	}
	if f.Kategoria != nil {
		line.Kategoria = *f.Kategoria
	}
	if f.Priorytet != nil {
		line.Priorytet = *f.Priorytet
	}
	if f.Rok1 != nil {
		line.Rok1 = f.Rok1
	}
	if f.Rok2 != nil {
		line.Rok2 = f.Rok2
	}
	if f.Rok3 != nil {
		line.Rok3 = f.Rok3
	}
	if f.Rok4 != nil {
		line.Rok4 = f.Rok4
	}
	if f.TypWydatku != nil {
		line.TypWydatku = *f.TypWydatku
	}
	if f.ZrodloFinansowania != nil {
		line.ZrodloFinansowania = *f.ZrodloFinansowania
	}
	if f.JednostkaRealizujaca != nil {
		line.JednostkaRealizujaca = *f.JednostkaRealizujaca
	}
	if f.OpisSzczegolowy != nil {
		line.OpisSzczegolowy = *f.OpisSzczegolowy
	}
	if f.Uzasadnienie != nil {
		line.Uzasadnienie = *f.Uzasadnienie
	}
	if f.Uwagi != nil {
		line.Uwagi = *f.Uwagi
	}
	if f.ZalacznikiRef != nil {
		line.ZalacznikiRef = *f.ZalacznikiRef
	}
	if f.OsobaOdpowiedzialna != nil {
		line.OsobaOdpowiedzialna = *f.OsobaOdpowiedzialna
	}
	if f.TelefonKontaktowy != nil {
		line.TelefonKontaktowy = *f.TelefonKontaktowy
	}
	if f.EmailKontaktowy != nil {
		line.EmailKontaktowy = *f.EmailKontaktowy
	}
	if f.DataRozpoczecia != nil {
		line.DataRozpoczecia = *f.DataRozpoczecia
	}
	if f.DataZakonczenia != nil {
		line.DataZakonczenia = *f.DataZakonczenia
	}
	if f.WskaznikiRealizacji != nil {
		line.WskaznikiRealizacji = *f.WskaznikiRealizacji
	}
}
