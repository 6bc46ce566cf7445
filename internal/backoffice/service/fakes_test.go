package service

import (
	"context"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/logger"

	"github.com/google/uuid"
)

func newTestLogger() *logger.Logger {
	log, err := logger.New("error", "console")
	if err != nil {
		panic(err)
	}
	return log
}

// fakeHoldingRepo is an in-memory HoldingRepository. Reads hand out copies
// so that callers mutate store state only through Update, like a real row.
type fakeHoldingRepo struct {
	holdings    map[uuid.UUID]entity.Holding
	createCalls int
	updateCalls int
	failUpdate  map[uuid.UUID]error
}

func newFakeHoldingRepo() *fakeHoldingRepo {
	return &fakeHoldingRepo{
		holdings:   make(map[uuid.UUID]entity.Holding),
		failUpdate: make(map[uuid.UUID]error),
	}
}

func (r *fakeHoldingRepo) Create(_ context.Context, holding *entity.Holding) error {
	r.createCalls++
	r.holdings[holding.ID] = *holding
	return nil
}

func (r *fakeHoldingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Holding, error) {
	holding, ok := r.holdings[id]
	if !ok {
		return nil, apperrors.ErrHoldingNotFound
	}
	return &holding, nil
}

func (r *fakeHoldingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Holding, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeHoldingRepo) Get(_ context.Context, param repository.GetHoldingsParam) ([]entity.Holding, error) {
	var result []entity.Holding
	for _, h := range r.holdings {
		if len(param.IDs) > 0 && !containsID(param.IDs, h.ID) {
			continue
		}
		if param.PortfolioID != nil && h.PortfolioID != *param.PortfolioID {
			continue
		}
		if param.UserID != nil && h.UserID != *param.UserID {
			continue
		}
		if param.Status != nil && h.Status != *param.Status {
			continue
		}
		if param.HasSymbol != nil && *param.HasSymbol != (h.Symbol != nil) {
			continue
		}
		if param.FixedRate != nil && *param.FixedRate {
			if !h.InstrumentType.IsFixedRate() || !h.InterestRate.Valid {
				continue
			}
		}
		result = append(result, h)
	}
	return result, nil
}

func (r *fakeHoldingRepo) Update(_ context.Context, holding *entity.Holding) error {
	if err, ok := r.failUpdate[holding.ID]; ok {
		return err
	}
	r.updateCalls++
	r.holdings[holding.ID] = *holding
	return nil
}

func (r *fakeHoldingRepo) DistinctPortfolioIDs(_ context.Context, holdingIDs []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, id := range holdingIDs {
		h, ok := r.holdings[id]
		if !ok {
			continue
		}
		if _, dup := seen[h.PortfolioID]; dup {
			continue
		}
		seen[h.PortfolioID] = struct{}{}
		ids = append(ids, h.PortfolioID)
	}
	return ids, nil
}

func (r *fakeHoldingRepo) snapshot() map[uuid.UUID]entity.Holding {
	snap := make(map[uuid.UUID]entity.Holding, len(r.holdings))
	for id, h := range r.holdings {
		snap[id] = h
	}
	return snap
}

func (r *fakeHoldingRepo) restore(snap map[uuid.UUID]entity.Holding) {
	r.holdings = snap
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// fakePortfolioRepo is an in-memory PortfolioRepository.
type fakePortfolioRepo struct {
	portfolios     map[uuid.UUID]entity.Portfolio
	aggregateCalls int
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{portfolios: make(map[uuid.UUID]entity.Portfolio)}
}

func (r *fakePortfolioRepo) Create(_ context.Context, portfolio *entity.Portfolio) error {
	r.portfolios[portfolio.ID] = *portfolio
	return nil
}

func (r *fakePortfolioRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Portfolio, error) {
	portfolio, ok := r.portfolios[id]
	if !ok {
		return nil, apperrors.ErrPortfolioNotFound
	}
	return &portfolio, nil
}

func (r *fakePortfolioRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Portfolio, error) {
	portfolio, ok := r.portfolios[id]
	if !ok || portfolio.UserID != userID {
		return nil, apperrors.ErrPortfolioNotFound
	}
	return &portfolio, nil
}

func (r *fakePortfolioRepo) UpdateAggregates(_ context.Context, id uuid.UUID, agg repository.PortfolioAggregates) error {
	portfolio, ok := r.portfolios[id]
	if !ok {
		return apperrors.ErrPortfolioNotFound
	}
	portfolio.TotalValue = agg.TotalValue
	portfolio.TotalInvested = agg.TotalInvested
	portfolio.TotalGain = agg.TotalGain
	portfolio.GainPercentage = agg.GainPercentage
	r.portfolios[id] = portfolio
	r.aggregateCalls++
	return nil
}

func (r *fakePortfolioRepo) snapshot() map[uuid.UUID]entity.Portfolio {
	snap := make(map[uuid.UUID]entity.Portfolio, len(r.portfolios))
	for id, p := range r.portfolios {
		snap[id] = p
	}
	return snap
}

func (r *fakePortfolioRepo) restore(snap map[uuid.UUID]entity.Portfolio) {
	r.portfolios = snap
}

// fakeTransactionRepo is an in-memory TransactionRepository with optional
// fault injection on Create.
type fakeTransactionRepo struct {
	transactions []entity.Transaction
	createErr    error
}

func (r *fakeTransactionRepo) Create(_ context.Context, transaction *entity.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *fakeTransactionRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]entity.Transaction, error) {
	var result []entity.Transaction
	for _, t := range r.transactions {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) snapshot() []entity.Transaction {
	return append([]entity.Transaction(nil), r.transactions...)
}

func (r *fakeTransactionRepo) restore(snap []entity.Transaction) {
	r.transactions = snap
}

// fakeInstrumentRepo is an in-memory InstrumentRepository.
type fakeInstrumentRepo struct {
	instruments map[uuid.UUID]entity.Instrument
}

func newFakeInstrumentRepo() *fakeInstrumentRepo {
	return &fakeInstrumentRepo{instruments: make(map[uuid.UUID]entity.Instrument)}
}

func (r *fakeInstrumentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Instrument, error) {
	instrument, ok := r.instruments[id]
	if !ok {
		return nil, apperrors.ErrInstrumentNotFound
	}
	return &instrument, nil
}

func (r *fakeInstrumentRepo) FindAllTradable(_ context.Context) ([]entity.Instrument, error) {
	var result []entity.Instrument
	for _, i := range r.instruments {
		if i.IsTradable {
			result = append(result, i)
		}
	}
	return result, nil
}

// fakeRunRepo is an in-memory RevaluationRunRepository.
type fakeRunRepo struct {
	runs   []entity.RevaluationRun
	nextID uint
}

func (r *fakeRunRepo) Create(_ context.Context, run *entity.RevaluationRun) error {
	r.nextID++
	run.ID = r.nextID
	r.runs = append(r.runs, *run)
	return nil
}

func (r *fakeRunRepo) FindByID(_ context.Context, id uint) (*entity.RevaluationRun, error) {
	for _, run := range r.runs {
		if run.ID == id {
			return &run, nil
		}
	}
	return nil, apperrors.ErrRevaluationRunNotFound
}

func (r *fakeRunRepo) FindRecent(_ context.Context, limit int) ([]entity.RevaluationRun, error) {
	if limit <= 0 || limit > len(r.runs) {
		limit = len(r.runs)
	}
	result := make([]entity.RevaluationRun, 0, limit)
	for i := len(r.runs) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.runs[i])
	}
	return result, nil
}

// fakeQuoteRepo is an in-memory QuoteRepository.
type fakeQuoteRepo struct {
	quotes   map[string]repository.Quote
	errs     map[string]error
	getCalls int
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{
		quotes: make(map[string]repository.Quote),
		errs:   make(map[string]error),
	}
}

func (r *fakeQuoteRepo) GetQuote(_ context.Context, symbol string) (*repository.Quote, error) {
	r.getCalls++
	if err, ok := r.errs[symbol]; ok {
		return nil, err
	}
	quote, ok := r.quotes[symbol]
	if !ok {
		return nil, nil
	}
	return &quote, nil
}

func (r *fakeQuoteRepo) GetQuotes(ctx context.Context, symbols []string) (map[string]repository.Quote, error) {
	result := make(map[string]repository.Quote, len(symbols))
	for _, symbol := range symbols {
		quote, err := r.GetQuote(ctx, symbol)
		if err != nil || quote == nil {
			continue
		}
		result[symbol] = *quote
	}
	return result, nil
}

// fakeStore bundles the fakes behind repository.Atomic, restoring a
// snapshot when the unit fails so rollback semantics hold in tests.
type fakeStore struct {
	holdings     *fakeHoldingRepo
	portfolios   *fakePortfolioRepo
	transactions *fakeTransactionRepo
	instruments  *fakeInstrumentRepo
	runs         *fakeRunRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		holdings:     newFakeHoldingRepo(),
		portfolios:   newFakePortfolioRepo(),
		transactions: &fakeTransactionRepo{},
		instruments:  newFakeInstrumentRepo(),
		runs:         &fakeRunRepo{},
	}
}

func (s *fakeStore) repositories() repository.Repositories {
	return repository.Repositories{
		Holdings:     s.holdings,
		Portfolios:   s.portfolios,
		Transactions: s.transactions,
		Instruments:  s.instruments,
		Runs:         s.runs,
	}
}

func (s *fakeStore) Atomically(_ context.Context, fn func(repos repository.Repositories) error) error {
	holdingsSnap := s.holdings.snapshot()
	portfoliosSnap := s.portfolios.snapshot()
	transactionsSnap := s.transactions.snapshot()

	if err := fn(s.repositories()); err != nil {
		s.holdings.restore(holdingsSnap)
		s.portfolios.restore(portfoliosSnap)
		s.transactions.restore(transactionsSnap)
		return err
	}
	return nil
}
