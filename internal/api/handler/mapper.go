package handler

import (
	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// --- Request → Service input ---

func toDealInput(r dealRequest) ports.DealInput {
	return ports.DealInput{
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Currency:      r.Currency,
		URL:           r.URL,
		ImageURL:      r.ImageURL,
		CouponCode:    r.CouponCode,
		DealTypeID:    r.DealTypeID,
		StoreID:       r.StoreID,
		CouponID:      r.CouponID,
		Featured:      r.Featured,
		Exclusive:     r.Exclusive,
		FreeShipping:  r.FreeShipping,
		NeverExpires:  r.NeverExpires,
		ExpiresAt:     r.ExpiresAt,
	}
}

func toStoreInput(r storeRequest) ports.StoreInput {
	return ports.StoreInput{
		Name:        r.Name,
		Website:     r.Website,
		LogoURL:     r.LogoURL,
		Description: r.Description,
	}
}

func toCouponInput(r couponRequest) ports.CouponInput {
	return ports.CouponInput{
		Code:        r.Code,
		StoreID:     r.StoreID,
		Description: r.Description,
		ExpiresAt:   r.ExpiresAt,
	}
}

// --- Service result → HTTP response ---

func toDealResponse(d *domain.Deal) dealResponse {
	return dealResponse{
		ID:              d.ID,
		Title:           d.Title,
		Slug:            d.Slug,
		Description:     d.Description,
		Price:           d.Price,
		OriginalPrice:   d.OriginalPrice,
		DiscountPercent: d.DiscountPercent,
		Currency:        d.Currency,
		URL:             d.URL,
		OriginalURL:     d.OriginalURL,
		ImageURL:        d.ImageURL,
		CouponCode:      d.CouponCode,
		DealTypeID:      d.DealTypeID,
		StoreID:         d.StoreID,
		UserStoreID:     d.UserStoreID,
		CouponID:        d.CouponID,
		AuthorID:        d.AuthorID,
		Featured:        d.Featured,
		Exclusive:       d.Exclusive,
		FreeShipping:    d.FreeShipping,
		Status:          string(d.Status),
		NeverExpires:    d.NeverExpires,
		ExpiresAt:       d.ExpiresAt,
		Likes:           d.LikeCount,
		Dislikes:        d.DislikeCount,
		Score:           d.Score(),
		Comments:        d.CommentCount,
		Views:           d.ViewCount,
		Clicks:          d.ClickCount,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
		Links: dealLinks{
			Self:     "/v1/deals/" + d.Slug,
			Go:       "/v1/deals/" + d.ID + "/go",
			Comments: "/v1/deals/" + d.ID + "/comments",
		},
	}
}

func toDealListResponse(p *ports.DealPage) listDealsResponse {
	items := make([]dealResponse, len(p.Items))
	for i, d := range p.Items {
		items[i] = toDealResponse(d)
	}
	return listDealsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		DealID:    c.DealID,
		ParentID:  c.ParentID,
		Author:    c.AuthorName,
		Body:      c.Body,
		Likes:     c.LikeCount,
		Deleted:   c.Deleted,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func toCommentTree(nodes []*domain.CommentNode) []commentResponse {
	out := make([]commentResponse, len(nodes))
	for i, n := range nodes {
		out[i] = toCommentResponse(&n.Comment)
		if len(n.Replies) > 0 {
			out[i].Replies = toCommentTree(n.Replies)
		}
	}
	return out
}

func toStoreResponse(s *domain.Store) storeResponse {
	return storeResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Website:     s.Website,
		LogoURL:     s.LogoURL,
		Description: s.Description,
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

func toDealTypeResponse(t *domain.DealType) dealTypeResponse {
	return dealTypeResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toCouponResponse(c *domain.Coupon) couponResponse {
	return couponResponse{
		ID:          c.ID,
		Code:        c.Code,
		StoreID:     c.StoreID,
		Description: c.Description,
		ExpiresAt:   c.ExpiresAt,
	}
}

func toUserStoreResponse(s *domain.UserStore) userStoreResponse {
	return userStoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		OwnerID:     s.OwnerID,
		Approved:    s.Approved,
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

func mapSlice[T any, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
