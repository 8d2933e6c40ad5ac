package discord

import "time"

const (
	queueSize   = 64
	sendTimeout = 10 * time.Second

	// Embed colors
	colorGreen  = 0x2ECC71 // Started
	colorBlue   = 0x3498DB // Finished
	colorOrange = 0xE67E22 // Suspended
	colorGray   = 0x95A5A6 // Override

	embedFooter = "Marcador"
)
