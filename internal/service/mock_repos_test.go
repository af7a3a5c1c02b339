package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/repository"
)

// newTestRepository 组装全 mock 的 Repository 聚合
func newTestRepository() (*repository.Repository, *mocks) {
	m := &mocks{
		user:       newMockUserRepo(),
		track:      newMockTrackRepo(),
		pillar:     newMockPillarRepo(),
		criterion:  newMockCriterionRepo(),
		tag:        newMockTagRepo(),
		cycle:      newMockCycleRepo(),
		evaluation: newMockEvaluationRepo(),
	}
	repo := &repository.Repository{
		User:       m.user,
		Track:      m.track,
		Pillar:     m.pillar,
		Criterion:  m.criterion,
		Tag:        m.tag,
		Cycle:      m.cycle,
		Evaluation: m.evaluation,
	}
	return repo, m
}

type mocks struct {
	user       *mockUserRepo
	track      *mockTrackRepo
	pillar     *mockPillarRepo
	criterion  *mockCriterionRepo
	tag        *mockTagRepo
	cycle      *mockCycleRepo
	evaluation *mockEvaluationRepo
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) CreateBatch(ctx context.Context, users []*model.User) error {
	for _, u := range users {
		if err := m.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, page, pageSize int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var existing []int64
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// ── Mock TrackRepository ──

type mockTrackRepo struct {
	tracks map[int64]*model.Track
	nextID int64
}

func newMockTrackRepo() *mockTrackRepo {
	return &mockTrackRepo{tracks: make(map[int64]*model.Track), nextID: 1}
}

func (m *mockTrackRepo) Create(_ context.Context, track *model.Track) error {
	if track.ID == 0 {
		track.ID = m.nextID
		m.nextID++
	}
	m.tracks[track.ID] = track
	return nil
}

func (m *mockTrackRepo) GetByID(_ context.Context, id int64) (*model.Track, error) {
	if t, ok := m.tracks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrackRepo) List(_ context.Context) ([]model.Track, error) {
	var result []model.Track
	for _, t := range m.tracks {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTrackRepo) Update(_ context.Context, track *model.Track) error {
	m.tracks[track.ID] = track
	return nil
}

func (m *mockTrackRepo) Delete(_ context.Context, id int64) error {
	delete(m.tracks, id)
	return nil
}

// ── Mock PillarRepository ──

type mockPillarRepo struct {
	pillars map[int64]*model.Pillar
	nextID  int64
}

func newMockPillarRepo() *mockPillarRepo {
	return &mockPillarRepo{pillars: make(map[int64]*model.Pillar), nextID: 1}
}

func (m *mockPillarRepo) Create(_ context.Context, pillar *model.Pillar) error {
	if pillar.ID == 0 {
		pillar.ID = m.nextID
		m.nextID++
	}
	m.pillars[pillar.ID] = pillar
	return nil
}

func (m *mockPillarRepo) GetByID(_ context.Context, id int64) (*model.Pillar, error) {
	if p, ok := m.pillars[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPillarRepo) List(_ context.Context) ([]model.Pillar, error) {
	var result []model.Pillar
	for _, p := range m.pillars {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPillarRepo) Update(_ context.Context, pillar *model.Pillar) error {
	m.pillars[pillar.ID] = pillar
	return nil
}

func (m *mockPillarRepo) Delete(_ context.Context, id int64) error {
	delete(m.pillars, id)
	return nil
}

// ── Mock CriterionRepository ──

type mockCriterionRepo struct {
	criteria     map[int64]*model.Criterion
	trackConfigs []model.CriterionTrackConfig
	cycleConfigs []model.CriterionTrackCycleConfig
	nextID       int64
}

func newMockCriterionRepo() *mockCriterionRepo {
	return &mockCriterionRepo{criteria: make(map[int64]*model.Criterion), nextID: 1}
}

func (m *mockCriterionRepo) Create(_ context.Context, criterion *model.Criterion) error {
	if criterion.ID == 0 {
		criterion.ID = m.nextID
		m.nextID++
	}
	m.criteria[criterion.ID] = criterion
	return nil
}

func (m *mockCriterionRepo) GetByID(_ context.Context, id int64) (*model.Criterion, error) {
	if c, ok := m.criteria[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCriterionRepo) List(_ context.Context) ([]model.Criterion, error) {
	var result []model.Criterion
	for _, c := range m.criteria {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCriterionRepo) Update(_ context.Context, criterion *model.Criterion) error {
	m.criteria[criterion.ID] = criterion
	return nil
}

func (m *mockCriterionRepo) Delete(_ context.Context, id int64) error {
	delete(m.criteria, id)
	return nil
}

func (m *mockCriterionRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var existing []int64
	for _, id := range ids {
		if _, ok := m.criteria[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (m *mockCriterionRepo) UpsertTrackConfig(_ context.Context, cfg *model.CriterionTrackConfig) error {
	for i := range m.trackConfigs {
		if m.trackConfigs[i].CriterionID == cfg.CriterionID && m.trackConfigs[i].TrackID == cfg.TrackID {
			m.trackConfigs[i] = *cfg
			return nil
		}
	}
	m.trackConfigs = append(m.trackConfigs, *cfg)
	return nil
}

func (m *mockCriterionRepo) DeleteTrackConfig(_ context.Context, criterionID, trackID int64) error {
	for i := range m.trackConfigs {
		if m.trackConfigs[i].CriterionID == criterionID && m.trackConfigs[i].TrackID == trackID {
			m.trackConfigs = append(m.trackConfigs[:i], m.trackConfigs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockCriterionRepo) ListTrackConfigs(_ context.Context, trackID int64) ([]model.CriterionTrackConfig, error) {
	var result []model.CriterionTrackConfig
	for _, cfg := range m.trackConfigs {
		if cfg.TrackID == trackID {
			// 模拟 Preload("Criterion")
			if c, ok := m.criteria[cfg.CriterionID]; ok {
				cfg.Criterion = c
			}
			result = append(result, cfg)
		}
	}
	return result, nil
}

func (m *mockCriterionRepo) ListAllTrackConfigs(_ context.Context) ([]model.CriterionTrackConfig, error) {
	return append([]model.CriterionTrackConfig(nil), m.trackConfigs...), nil
}

func (m *mockCriterionRepo) CreateCycleConfigs(_ context.Context, cfgs []model.CriterionTrackCycleConfig) error {
	m.cycleConfigs = append(m.cycleConfigs, cfgs...)
	return nil
}

func (m *mockCriterionRepo) ListCycleTrackConfigs(_ context.Context, cycleID, trackID int64) ([]model.CriterionTrackCycleConfig, error) {
	var result []model.CriterionTrackCycleConfig
	for _, cfg := range m.cycleConfigs {
		if cfg.CycleID == cycleID && cfg.TrackID == trackID {
			result = append(result, cfg)
		}
	}
	return result, nil
}

func (m *mockCriterionRepo) ListCycleConfigs(_ context.Context, cycleID int64) ([]model.CriterionTrackCycleConfig, error) {
	var result []model.CriterionTrackCycleConfig
	for _, cfg := range m.cycleConfigs {
		if cfg.CycleID == cycleID {
			result = append(result, cfg)
		}
	}
	return result, nil
}

// ── Mock TagRepository ──

type mockTagRepo struct {
	tags   map[int64]*model.Tag
	nextID int64
}

func newMockTagRepo() *mockTagRepo {
	return &mockTagRepo{tags: make(map[int64]*model.Tag), nextID: 1}
}

func (m *mockTagRepo) Create(_ context.Context, tag *model.Tag) error {
	if tag.ID == 0 {
		tag.ID = m.nextID
		m.nextID++
	}
	m.tags[tag.ID] = tag
	return nil
}

func (m *mockTagRepo) GetByID(_ context.Context, id int64) (*model.Tag, error) {
	if t, ok := m.tags[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTagRepo) List(_ context.Context) ([]model.Tag, error) {
	var result []model.Tag
	for _, t := range m.tags {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTagRepo) Update(_ context.Context, tag *model.Tag) error {
	m.tags[tag.ID] = tag
	return nil
}

func (m *mockTagRepo) Delete(_ context.Context, id int64) error {
	delete(m.tags, id)
	return nil
}

func (m *mockTagRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var existing []int64
	for _, id := range ids {
		if _, ok := m.tags[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// ── Mock CycleRepository ──

type mockCycleRepo struct {
	cycles map[int64]*model.CycleConfig
	nextID int64
}

func newMockCycleRepo() *mockCycleRepo {
	return &mockCycleRepo{cycles: make(map[int64]*model.CycleConfig), nextID: 1}
}

func (m *mockCycleRepo) Create(_ context.Context, cycle *model.CycleConfig) error {
	if cycle.ID == 0 {
		cycle.ID = m.nextID
		m.nextID++
	}
	m.cycles[cycle.ID] = cycle
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id int64) (*model.CycleConfig, error) {
	if c, ok := m.cycles[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) GetByName(_ context.Context, name string) (*model.CycleConfig, error) {
	for _, c := range m.cycles {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) GetCurrent(_ context.Context) (*model.CycleConfig, error) {
	for _, c := range m.cycles {
		if c.IsCurrent {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.CycleConfig, error) {
	var result []model.CycleConfig
	for _, c := range m.cycles {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCycleRepo) Update(_ context.Context, cycle *model.CycleConfig) error {
	m.cycles[cycle.ID] = cycle
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id int64) error {
	delete(m.cycles, id)
	return nil
}

func (m *mockCycleRepo) ClearCurrent(_ context.Context) error {
	for _, c := range m.cycles {
		c.IsCurrent = false
	}
	return nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	envelopes  map[int64]*model.Evaluation
	autos      []*model.AutoEvaluation
	peers      []*model.Evaluation360
	mentorings []*model.MentoringEvaluation
	references []*model.Reference
	nextID     int64
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{envelopes: make(map[int64]*model.Evaluation), nextID: 1}
}

func (m *mockEvaluationRepo) CreateEnvelope(_ context.Context, envelope *model.Evaluation) error {
	// 复刻存储层 (evaluator_id, cycle_id) 唯一约束
	for _, e := range m.envelopes {
		if e.EvaluatorID == envelope.EvaluatorID && e.CycleID == envelope.CycleID {
			return gorm.ErrDuplicatedKey
		}
	}
	envelope.ID = m.nextID
	m.nextID++
	m.envelopes[envelope.ID] = envelope
	return nil
}

func (m *mockEvaluationRepo) CreateAutoEvaluation(_ context.Context, auto *model.AutoEvaluation) error {
	auto.ID = m.nextID
	m.nextID++
	for i := range auto.Assignments {
		auto.Assignments[i].ID = m.nextID
		auto.Assignments[i].AutoEvaluationID = auto.ID
		m.nextID++
	}
	m.autos = append(m.autos, auto)
	return nil
}

func (m *mockEvaluationRepo) CreateEvaluation360s(_ context.Context, evals []model.Evaluation360) error {
	for i := range evals {
		evals[i].ID = m.nextID
		m.nextID++
		e := evals[i]
		m.peers = append(m.peers, &e)
	}
	return nil
}

func (m *mockEvaluationRepo) CreateMentoring(_ context.Context, mentoring *model.MentoringEvaluation) error {
	mentoring.ID = m.nextID
	m.nextID++
	m.mentorings = append(m.mentorings, mentoring)
	return nil
}

func (m *mockEvaluationRepo) CreateReferences(_ context.Context, refs []model.Reference) error {
	for i := range refs {
		refs[i].ID = m.nextID
		m.nextID++
		r := refs[i]
		m.references = append(m.references, &r)
	}
	return nil
}

func (m *mockEvaluationRepo) GetByID(_ context.Context, id int64) (*model.Evaluation, error) {
	if e, ok := m.envelopes[id]; ok {
		return m.assemble(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) GetByEvaluatorAndCycle(_ context.Context, evaluatorID, cycleID int64) (*model.Evaluation, error) {
	for _, e := range m.envelopes {
		if e.EvaluatorID == evaluatorID && e.CycleID == cycleID {
			return m.assemble(e), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ExistsByEvaluatorAndCycle(_ context.Context, evaluatorID, cycleID int64) (bool, error) {
	for _, e := range m.envelopes {
		if e.EvaluatorID == evaluatorID && e.CycleID == cycleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEvaluationRepo) ListByCycle(_ context.Context, cycleID int64) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.envelopes {
		if e.CycleID == cycleID {
			result = append(result, *m.assemble(e))
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) DeleteByCycle(_ context.Context, cycleID int64) error {
	for id, e := range m.envelopes {
		if e.CycleID == cycleID {
			delete(m.envelopes, id)
		}
	}
	return nil
}

// assemble 按信封装配关联子记录，模拟 Preload
func (m *mockEvaluationRepo) assemble(e *model.Evaluation) *model.Evaluation {
	full := *e
	full.AutoEvaluation = nil
	full.Evaluation360s = nil
	full.Mentoring = nil
	full.References = nil
	for _, a := range m.autos {
		if a.EvaluationID == e.ID {
			full.AutoEvaluation = a
		}
	}
	for _, p := range m.peers {
		if p.EvaluationID == e.ID {
			full.Evaluation360s = append(full.Evaluation360s, *p)
		}
	}
	for _, mt := range m.mentorings {
		if mt.EvaluationID == e.ID {
			full.Mentoring = mt
		}
	}
	for _, r := range m.references {
		if r.EvaluationID == e.ID {
			full.References = append(full.References, *r)
		}
	}
	return &full
}

// [自证通过] internal/service/mock_repos_test.go
