package constants

import "time"

var CaricatureLimits = struct {
	MaxImageBytes   int
	MaxRequestBytes int64
	ImageCount      int64
}{
	MaxImageBytes:   5 * 1024 * 1024, // decoded upload
	MaxRequestBytes: 8 * 1024 * 1024, // base64 inflates by 4/3 plus JSON framing
	ImageCount:      1,
}

var CacheTTL = struct {
	GuestList time.Duration
}{
	GuestList: 5 * time.Minute,
}

var CacheKeys = struct {
	GuestList string
}{
	GuestList: "wedding:guests",
}

var HTTPConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	SheetTimeout    time.Duration
}{
	ReadTimeout:     30 * time.Second,
	WriteTimeout:    5 * time.Minute, // two chained upstream calls, image generation is slow
	IdleTimeout:     120 * time.Second,
	ShutdownTimeout: 10 * time.Second,
	SheetTimeout:    15 * time.Second,
}

var GuestConfig = struct {
	MaxConcurrentSources int
}{
	MaxConcurrentSources: 4,
}

var StringLimits = struct {
	DescriptionPreview int
}{
	DescriptionPreview: 120,
}
