// Package repotest provides in-memory implementations of the repository
// interfaces for tests that exercise resolution and conversation logic
// without Postgres or Redis.
package repotest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/altonotch/dilli/internal/errors"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/repository"
)

type CityRepo struct {
	mu     sync.Mutex
	nextID int64
	Cities []model.City
}

func NewCityRepo() *CityRepo {
	return &CityRepo{nextID: 1}
}

func (r *CityRepo) Seed(nameHe, nameEn, slug string) *model.City {
	r.mu.Lock()
	defer r.mu.Unlock()
	city := model.City{
		ID: r.nextID, NameHe: nameHe, NameEn: nameEn, Slug: slug,
		IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	r.nextID++
	r.Cities = append(r.Cities, city)
	return &r.Cities[len(r.Cities)-1]
}

func (r *CityRepo) FindByID(_ context.Context, id int64) (*model.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Cities {
		if r.Cities[i].ID == id {
			c := r.Cities[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CityRepo) FindByName(_ context.Context, name string) (*model.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Cities {
		c := r.Cities[i]
		if !c.IsActive {
			continue
		}
		if strings.EqualFold(c.NameHe, name) || strings.EqualFold(c.NameEn, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CityRepo) SearchByName(_ context.Context, name string, limit int) ([]model.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lower := strings.ToLower(name)
	var out []model.City
	for _, c := range r.Cities {
		if !c.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(c.NameHe), lower) || strings.Contains(strings.ToLower(c.NameEn), lower) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *CityRepo) FindBySlug(_ context.Context, slug string) (*model.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Cities {
		if r.Cities[i].Slug == slug {
			c := r.Cities[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CityRepo) Create(_ context.Context, params model.CreateCityParams) (*model.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	city := model.City{
		ID: r.nextID, NameHe: params.NameHe, NameEn: params.NameEn, Slug: params.Slug,
		IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	r.nextID++
	r.Cities = append(r.Cities, city)
	return &city, nil
}

type StoreRepo struct {
	mu     sync.Mutex
	nextID int64
	Stores []model.Store
}

func NewStoreRepo() *StoreRepo {
	return &StoreRepo{nextID: 1}
}

func (r *StoreRepo) Seed(params model.CreateStoreParams) *model.Store {
	store, _ := r.Create(context.Background(), params)
	return store
}

func (r *StoreRepo) FindByID(_ context.Context, id int64) (*model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Stores {
		if r.Stores[i].ID == id {
			s := r.Stores[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *StoreRepo) ListActive(_ context.Context) ([]model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Store
	for _, s := range r.Stores {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *StoreRepo) Create(_ context.Context, params model.CreateStoreParams) (*model.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store := model.Store{
		ID:          r.nextID,
		Name:        params.Name,
		DisplayName: params.DisplayName,
		CityID:      params.CityID,
		City:        params.City,
		CityHe:      params.CityHe,
		CityEn:      params.CityEn,
		Address:     params.Address,
		AliasesHe:   params.AliasesHe,
		AliasesEn:   params.AliasesEn,
		SearchTerms: repository.BuildSearchTerms(params.Name, params.DisplayName, params.AliasesHe, params.AliasesEn),
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.nextID++
	r.Stores = append(r.Stores, store)
	return &store, nil
}

func (r *StoreRepo) UpdateCity(_ context.Context, id int64, cityID *int64, city, cityHe, cityEn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Stores {
		if r.Stores[i].ID == id {
			r.Stores[i].CityID = cityID
			r.Stores[i].City = city
			r.Stores[i].CityHe = cityHe
			r.Stores[i].CityEn = cityEn
			r.Stores[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return apperrors.NotFound("store")
}

type ProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	Products []model.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{nextID: 1}
}

func (r *ProductRepo) Seed(params model.CreateProductParams) *model.Product {
	product, _ := r.Create(context.Background(), params)
	return product
}

func (r *ProductRepo) FindByID(_ context.Context, id int64) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Products {
		if r.Products[i].ID == id {
			p := r.Products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) FindByName(_ context.Context, name, brand string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Products {
		p := r.Products[i]
		if !p.IsActive {
			continue
		}
		if !strings.EqualFold(p.NameHe, name) && !strings.EqualFold(p.NameEn, name) {
			continue
		}
		if brand != "" && !strings.EqualFold(p.Brand, brand) {
			continue
		}
		return &p, nil
	}
	return nil, nil
}

func (r *ProductRepo) FindByChunk(_ context.Context, chunk, brand string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lower := strings.ToLower(chunk)
	for i := range r.Products {
		p := r.Products[i]
		if !p.IsActive {
			continue
		}
		if !strings.Contains(strings.ToLower(p.NameHe), lower) && !strings.Contains(strings.ToLower(p.NameEn), lower) {
			continue
		}
		if brand != "" && !strings.EqualFold(p.Brand, brand) {
			continue
		}
		return &p, nil
	}
	return nil, nil
}

func (r *ProductRepo) Create(_ context.Context, params model.CreateProductParams) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product := model.Product{
		ID:                  r.nextID,
		NameHe:              params.NameHe,
		NameEn:              params.NameEn,
		Brand:               params.Brand,
		Variant:             params.Variant,
		DefaultUnitTypeHe:   params.DefaultUnitTypeHe,
		DefaultUnitTypeEn:   params.DefaultUnitTypeEn,
		DefaultUnitQuantity: params.DefaultUnitQuantity,
		IsActive:            true,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	r.nextID++
	r.Products = append(r.Products, product)
	return &product, nil
}

func (r *ProductRepo) SetDefaultUnit(_ context.Context, id int64, typeHe, typeEn string, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Products {
		p := &r.Products[i]
		if p.ID != id {
			continue
		}
		if p.DefaultUnitTypeHe != "" || p.DefaultUnitTypeEn != "" || p.DefaultUnitQuantity.Valid {
			return nil
		}
		p.DefaultUnitTypeHe = typeHe
		p.DefaultUnitTypeEn = typeEn
		p.DefaultUnitQuantity = decimal.NullDecimal{Decimal: quantity, Valid: true}
		p.UpdatedAt = time.Now()
		return nil
	}
	return apperrors.NotFound("product")
}

type ReportRepo struct {
	mu      sync.Mutex
	nextID  int64
	Reports []model.PriceReport

	// FailCreate forces Create to error, for persistence failure paths.
	FailCreate bool

	products *ProductRepo
	stores   *StoreRepo
}

func NewReportRepo(products *ProductRepo, stores *StoreRepo) *ReportRepo {
	return &ReportRepo{nextID: 1, products: products, stores: stores}
}

func (r *ReportRepo) FindByID(_ context.Context, id int64) (*model.PriceReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Reports {
		if r.Reports[i].ID == id {
			rep := r.Reports[i]
			return &rep, nil
		}
	}
	return nil, nil
}

func (r *ReportRepo) Create(_ context.Context, params model.CreatePriceReportParams) (*model.PriceReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreate {
		return nil, apperrors.Database(fmt.Errorf("create report: forced failure"))
	}
	report := model.PriceReport{
		ID:                  r.nextID,
		UserID:              params.UserID,
		ProductID:           params.ProductID,
		StoreID:             params.StoreID,
		Price:               params.Price,
		UnitsInPrice:        params.UnitsInPrice,
		UnitMeasureTypeHe:   params.UnitMeasureTypeHe,
		UnitMeasureTypeEn:   params.UnitMeasureTypeEn,
		UnitMeasureQuantity: params.UnitMeasureQuantity,
		ClubOnly:            params.ClubOnly,
		MinCartTotal:        params.MinCartTotal,
		DealNotes:           params.DealNotes,
		NeedsModeration:     true,
		ObservedAt:          params.ObservedAt,
		ProductTextRaw:      params.ProductTextRaw,
		Locale:              params.Locale,
		Source:              params.Source,
		CreatedAt:           time.Now(),
	}
	r.nextID++
	r.Reports = append(r.Reports, report)
	return &report, nil
}

func (r *ReportRepo) SearchDeals(ctx context.Context, params model.DealSearchParams) ([]model.DealRow, error) {
	r.mu.Lock()
	reports := make([]model.PriceReport, len(r.Reports))
	copy(reports, r.Reports)
	r.mu.Unlock()

	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}

	var rows []model.DealRow
	// Newest first, matching the SQL ordering.
	for i := len(reports) - 1; i >= 0; i-- {
		rep := reports[i]
		if rep.NeedsModeration {
			continue
		}
		product, _ := r.products.FindByID(ctx, rep.ProductID)
		store, _ := r.stores.FindByID(ctx, rep.StoreID)
		if product == nil || store == nil {
			continue
		}
		if params.ProductQuery != "" &&
			!contains(product.NameHe, params.ProductQuery) &&
			!contains(product.NameEn, params.ProductQuery) &&
			!contains(rep.ProductTextRaw, params.ProductQuery) {
			continue
		}
		if params.BrandQuery != "" &&
			!contains(product.Brand, params.BrandQuery) &&
			!contains(product.NameHe, params.BrandQuery) &&
			!contains(product.NameEn, params.BrandQuery) {
			continue
		}
		if params.City != "" &&
			!contains(store.City, params.City) &&
			!contains(store.CityHe, params.City) &&
			!contains(store.CityEn, params.City) {
			continue
		}
		rows = append(rows, model.DealRow{
			ReportID:     rep.ID,
			ProductID:    product.ID,
			StoreID:      store.ID,
			ProductHe:    product.NameHe,
			ProductEn:    product.NameEn,
			ProductRaw:   rep.ProductTextRaw,
			Brand:        product.Brand,
			StoreName:    store.Label(),
			City:         store.CityDisplay(),
			Price:        rep.Price,
			UnitsInPrice: rep.UnitsInPrice,
			ObservedAt:   rep.ObservedAt,
		})
		if params.Limit > 0 && len(rows) == params.Limit {
			break
		}
	}
	return rows, nil
}

type UserRepo struct {
	mu    sync.Mutex
	Users []model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			u := r.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindBySenderHash(_ context.Context, senderHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Users {
		if r.Users[i].SenderHash == senderHash {
			u := r.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Create(_ context.Context, params model.CreateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := model.User{
		ID:          uuid.NewString(),
		SenderHash:  params.SenderHash,
		SenderLast4: params.SenderLast4,
		DisplayName: params.DisplayName,
		Locale:      params.Locale,
		Role:        model.RoleUser,
		IsActive:    true,
		DateJoined:  time.Now(),
	}
	r.Users = append(r.Users, user)
	return &user, nil
}

func (r *UserRepo) UpdateLocale(_ context.Context, id, locale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users[i].Locale = locale
			return nil
		}
	}
	return apperrors.NotFound("user")
}

func (r *UserRepo) UpdateCity(_ context.Context, id string, cityID *int64, city string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users[i].CityID = cityID
			r.Users[i].City = city
			return nil
		}
	}
	return apperrors.NotFound("user")
}

func (r *UserRepo) TouchLastSeen(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Users {
		if r.Users[i].ID == id {
			r.Users[i].LastSeen = &at
			return nil
		}
	}
	return apperrors.NotFound("user")
}

type SessionStore struct {
	mu       sync.Mutex
	Sessions map[string]*model.Session
	active   map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		Sessions: make(map[string]*model.Session),
		active:   make(map[string]string),
	}
}

func activeKey(userID string, kind model.FlowKind) string {
	return string(kind) + ":" + userID
}

func (s *SessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.Sessions[id]
	if !ok {
		return nil, apperrors.SessionNotFound()
	}
	copied := *session
	return &copied, nil
}

func (s *SessionStore) GetActive(_ context.Context, userID string, kind model.FlowKind) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.active[activeKey(userID, kind)]
	if !ok {
		return nil, nil
	}
	session, ok := s.Sessions[id]
	if !ok || !session.IsActive {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *SessionStore) Create(_ context.Context, userID string, kind model.FlowKind, step model.Step) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Step:      step,
		Data:      model.SessionData{Version: 1},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Sessions[session.ID] = session
	s.active[activeKey(userID, kind)] = session.ID
	copied := *session
	return &copied, nil
}

func (s *SessionStore) Save(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.UpdatedAt = time.Now().UTC()
	copied := *session
	s.Sessions[session.ID] = &copied
	return nil
}

func (s *SessionStore) Deactivate(ctx context.Context, session *model.Session) error {
	session.IsActive = false
	if err := s.Save(ctx, session); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := activeKey(session.UserID, session.Kind)
	if s.active[key] == session.ID {
		delete(s.active, key)
	}
	return nil
}

func (s *SessionStore) DeactivateAllActive(ctx context.Context, userID string, kind model.FlowKind) error {
	session, err := s.GetActive(ctx, userID, kind)
	if err != nil || session == nil {
		return err
	}
	return s.Deactivate(ctx, session)
}
