package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/tpx/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 20

type RenderOptions struct {
	BarWidth int
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Teleport Requests"),
		s.header.Render(fmt.Sprintf(
			"pending: %d  cooldowns: %d  teleports scheduled: %d",
			len(snapshot.Requests),
			len(snapshot.Cooldowns),
			snapshot.TeleportsScheduled,
		)),
	}

	lines = append(lines, s.section.Render(renderRequests(snapshot, opts, s)))
	lines = append(lines, s.section.Render(renderCooldowns(snapshot, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRequests(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	parts := []string{s.sectionKey.Render("requests")}
	if len(snapshot.Requests) == 0 {
		parts = append(parts, s.empty.Render("No pending requests."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	for _, status := range snapshot.Requests {
		parts = append(parts, requestLine(status, snapshot.Now, width, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func requestLine(status application.RequestStatus, now time.Time, width int, s styles) string {
	req := status.Request
	leftPercent := timeLeftPercent(req.CreatedAt, req.ExpiresAt, now)
	remaining := req.Remaining(now)

	leftStyle := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.actor.Render(status.RequesterName),
		s.arrow.Render(" -> "),
		s.actor.Render(status.RecipientName),
		" ",
		renderProgressBar(leftPercent, width, s),
		" ",
		leftStyle.Render(fmt.Sprintf("%s left", formatSeconds(remaining))),
	)
}

func renderCooldowns(snapshot application.Snapshot, s styles) string {
	parts := []string{s.sectionKey.Render("cooldowns")}
	if len(snapshot.Cooldowns) == 0 {
		parts = append(parts, s.empty.Render("No active cooldowns."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	for _, c := range snapshot.Cooldowns {
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.actor.Render(c.ActorName),
			" ",
			s.detail.Render(fmt.Sprintf("can send again in %ds", c.Remaining)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func timeLeftPercent(createdAt, expiresAt, now time.Time) float64 {
	total := expiresAt.Sub(createdAt)
	if total <= 0 {
		return 0
	}

	return clampPercent(100 * expiresAt.Sub(now).Seconds() / total.Seconds())
}

func formatSeconds(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return fmt.Sprintf("%ds", int(math.Ceil(d.Seconds())))
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(leftPercent) / 100.0))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// interpolateColor maps value onto the 240..255 greyscale ramp, brightest at max.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
