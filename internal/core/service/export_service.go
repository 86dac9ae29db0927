package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
	"github.com/dealspot/dealspot/internal/export"
)

// ExportDeps groups the repositories an export can read from.
type ExportDeps struct {
	Deals       ports.DealRepository
	Users       ports.UserRepository
	Subscribers ports.SubscriberRepository
	Stores      ports.StoreRepository
	Types       ports.DealTypeRepository
	Comments    ports.CommentRepository
}

// ExportService validates export requests and binds them to repositories.
type ExportService struct {
	deps ExportDeps
	log  zerolog.Logger
}

func NewExportService(deps ExportDeps, log zerolog.Logger) *ExportService {
	return &ExportService{deps: deps, log: log}
}

var _ ports.ExportService = (*ExportService)(nil)

const dateLayout = "2006-01-02"

// Prepare validates the request and returns a job over the matching records.
// Any malformed parameter yields domain.ErrInvalidQuery.
func (s *ExportService) Prepare(ctx context.Context, req ports.ExportRequest) (export.Job, error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	f := filterValues(req.Filters)
	opt := export.WithLogger(s.log.With().Str("export", req.Entity).Logger())

	switch req.Entity {
	case ports.ExportDeals:
		sort, err := parseSort(req.SortField, req.SortOrder, ports.DealSortFields)
		if err != nil {
			return nil, err
		}
		filter, err := dealExportFilter(f)
		if err != nil {
			return nil, err
		}
		exp, err := s.dealExporter(ctx)
		if err != nil {
			return nil, err
		}
		src := export.SourceFunc(
			func(ctx context.Context) (int64, error) { return s.deps.Deals.Count(ctx, filter) },
			func(ctx context.Context, sort domain.Sort, page domain.Page) ([]*domain.Deal, error) {
				return s.deps.Deals.Find(ctx, filter, sort, page)
			},
		)
		return export.New[*domain.Deal](src, exp, sort, format, opt), nil

	case ports.ExportUsers:
		sort, err := parseSort(req.SortField, req.SortOrder, ports.UserSortFields)
		if err != nil {
			return nil, err
		}
		filter, err := userExportFilter(f)
		if err != nil {
			return nil, err
		}
		src := export.SourceFunc(
			func(ctx context.Context) (int64, error) { return s.deps.Users.Count(ctx, filter) },
			func(ctx context.Context, sort domain.Sort, page domain.Page) ([]*domain.User, error) {
				return s.deps.Users.Find(ctx, filter, sort, page)
			},
		)
		return export.New[*domain.User](src, export.UserExporter{}, sort, format, opt), nil

	case ports.ExportSubscribers:
		sort, err := parseSortDefault(req.SortField, req.SortOrder, ports.SubscriberSortFields, "subscribedAt")
		if err != nil {
			return nil, err
		}
		active, err := f.boolPtr("active")
		if err != nil {
			return nil, err
		}
		filter := ports.SubscriberFilter{Search: f.get("q"), Active: active}
		src := export.SourceFunc(
			func(ctx context.Context) (int64, error) { return s.deps.Subscribers.Count(ctx, filter) },
			func(ctx context.Context, sort domain.Sort, page domain.Page) ([]*domain.Subscriber, error) {
				return s.deps.Subscribers.Find(ctx, filter, sort, page)
			},
		)
		return export.New[*domain.Subscriber](src, export.SubscriberExporter{}, sort, format, opt), nil

	case ports.ExportStores:
		sort, err := parseSort(req.SortField, req.SortOrder, ports.StoreSortFields)
		if err != nil {
			return nil, err
		}
		filter := ports.StoreFilter{Search: f.get("q")}
		src := export.SourceFunc(
			func(ctx context.Context) (int64, error) { return s.deps.Stores.Count(ctx, filter) },
			func(ctx context.Context, sort domain.Sort, page domain.Page) ([]*domain.Store, error) {
				return s.deps.Stores.Find(ctx, filter, sort, page)
			},
		)
		return export.New[*domain.Store](src, export.StoreExporter{}, sort, format, opt), nil

	case ports.ExportComments:
		sort, err := parseSort(req.SortField, req.SortOrder, ports.CommentSortFields)
		if err != nil {
			return nil, err
		}
		includeDeleted, err := f.boolPtr("includeDeleted")
		if err != nil {
			return nil, err
		}
		filter := ports.CommentFilter{
			DealID:         f.get("deal"),
			AuthorID:       f.get("author"),
			Search:         f.get("q"),
			IncludeDeleted: includeDeleted != nil && *includeDeleted,
		}
		src := export.SourceFunc(
			func(ctx context.Context) (int64, error) { return s.deps.Comments.Count(ctx, filter) },
			func(ctx context.Context, sort domain.Sort, page domain.Page) ([]*domain.Comment, error) {
				return s.deps.Comments.Find(ctx, filter, sort, page)
			},
		)
		return export.New[*domain.Comment](src, export.CommentExporter{}, sort, format, opt), nil
	}

	return nil, fmt.Errorf("%w: unknown entity %q", domain.ErrInvalidQuery, req.Entity)
}

// dealExporter resolves store and deal type names for the export columns.
func (s *ExportService) dealExporter(ctx context.Context) (*export.DealExporter, error) {
	stores, err := s.deps.Stores.Find(ctx, ports.StoreFilter{}, domain.Sort{Field: "name"}, domain.Page{})
	if err != nil {
		return nil, fmt.Errorf("load stores: %w", err)
	}
	types, err := s.deps.Types.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deal types: %w", err)
	}

	storeNames := make(map[string]string, len(stores))
	for _, st := range stores {
		storeNames[st.ID] = st.Name
	}
	typeNames := make(map[string]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}
	return export.NewDealExporter(storeNames, typeNames), nil
}

func parseSort(field, order string, allowed []string) (domain.Sort, error) {
	return parseSortDefault(field, order, allowed, "createdAt")
}

// parseSortDefault validates the sort pair against a whitelist. Results are
// newest first unless sortOrder says otherwise.
func parseSortDefault(field, order string, allowed []string, fallback string) (domain.Sort, error) {
	if field == "" {
		field = fallback
	}
	if !slices.Contains(allowed, field) {
		return domain.Sort{}, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidQuery, field)
	}
	switch strings.ToLower(order) {
	case "", "desc":
		return domain.Sort{Field: field, Desc: true}, nil
	case "asc":
		return domain.Sort{Field: field}, nil
	}
	return domain.Sort{}, fmt.Errorf("%w: sort order must be asc or desc", domain.ErrInvalidQuery)
}

func dealExportFilter(f filterValues) (ports.DealFilter, error) {
	filter := ports.DealFilter{
		Search:      f.get("q"),
		StoreID:     f.get("store"),
		DealTypeID:  f.get("type"),
		UserStoreID: f.get("userStore"),
		AuthorID:    f.get("author"),
	}

	if raw := f.get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st := domain.DealStatus(strings.TrimSpace(part))
			if !st.Valid() {
				return filter, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidQuery, st)
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}

	var err error
	if filter.Featured, err = f.boolPtr("featured"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = f.floatPtr("minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = f.floatPtr("maxPrice"); err != nil {
		return filter, err
	}
	if filter.CreatedFrom, err = f.date("from"); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = f.date("to"); err != nil {
		return filter, err
	}
	if !filter.CreatedTo.IsZero() {
		// inclusive end day
		filter.CreatedTo = filter.CreatedTo.Add(24 * time.Hour)
	}
	if !filter.CreatedFrom.IsZero() && !filter.CreatedTo.IsZero() && !filter.CreatedFrom.Before(filter.CreatedTo) {
		return filter, fmt.Errorf("%w: from must not be after to", domain.ErrInvalidQuery)
	}
	return filter, nil
}

func userExportFilter(f filterValues) (ports.UserFilter, error) {
	filter := ports.UserFilter{Search: f.get("q"), Role: f.get("role")}
	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return filter, domain.ErrInvalidRole
	}
	blocked, err := f.boolPtr("blocked")
	if err != nil {
		return filter, err
	}
	filter.Blocked = blocked
	return filter, nil
}

// filterValues reads typed values out of raw query parameters.
type filterValues map[string]string

func (f filterValues) get(key string) string {
	return strings.TrimSpace(f[key])
}

func (f filterValues) boolPtr(key string) (*bool, error) {
	raw := f.get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidQuery, key)
	}
	return &v, nil
}

func (f filterValues) floatPtr(key string) (*float64, error) {
	raw := f.get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidQuery, key)
	}
	return &v, nil
}

func (f filterValues) date(key string) (time.Time, error) {
	raw := f.get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidQuery, key)
	}
	return t, nil
}
