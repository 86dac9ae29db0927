package domain

import "errors"

var (
	ErrDealNotFound      = errors.New("deal not found")
	ErrStoreNotFound     = errors.New("store not found")
	ErrDealTypeNotFound  = errors.New("deal type not found")
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrUserStoreNotFound = errors.New("user store not found")
	ErrUserStoreExists   = errors.New("user store already exists")
	ErrUserStorePending  = errors.New("user store is awaiting approval")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrSubscriberExists  = errors.New("already subscribed")
	ErrSubscriberMissing = errors.New("subscriber not found")
	ErrSlugTaken         = errors.New("slug already taken")
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidExpiry     = errors.New("invalid expiry")
	ErrInvalidPrice      = errors.New("original price must not be lower than price")
	ErrInvalidParent     = errors.New("parent comment belongs to another deal")
	ErrAlreadyReacted    = errors.New("already reacted")
	ErrNoExportData      = errors.New("no data to export")
	ErrInvalidQuery      = errors.New("invalid query parameters")
)
