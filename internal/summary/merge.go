package summary

import (
	"strings"

	"github.com/quizforge/quizforge/internal/domain"
)

// Caps applied by the deterministic merge so a long chunk series folds into
// a bounded document. The polish pass relaxes nothing, it only tidies.
const (
	maxSectionBullets    = 6
	maxSubsections       = 4
	maxSubsectionBullets = 5
	maxSubheadings       = 3
	maxSubheadingContent = 5
)

// LocalMerge folds two summaries into one, keyed by section and slide title
// in first-seen order. It is the coverage guarantee of the pipeline: when a
// generation call drops out, the merged document still carries every chunk
// that produced a micro-summary.
func LocalMerge(a, b *domain.StudySummary) *domain.StudySummary {
	out := &domain.StudySummary{SchemaVersion: "1.0"}
	out.NarrativeSections = mergeSections(sectionsOf(a), sectionsOf(b))
	out.Slides = mergeSlides(slidesOf(a), slidesOf(b))
	return out
}

func sectionsOf(s *domain.StudySummary) []domain.NarrativeSection {
	if s == nil {
		return nil
	}
	return s.NarrativeSections
}

func slidesOf(s *domain.StudySummary) []domain.Slide {
	if s == nil {
		return nil
	}
	return s.Slides
}

func mergeSections(a, b []domain.NarrativeSection) []domain.NarrativeSection {
	byTitle := make(map[string]*domain.NarrativeSection)
	var order []string

	for _, s := range append(append([]domain.NarrativeSection{}, a...), b...) {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}
		dst, ok := byTitle[title]
		if !ok {
			dst = &domain.NarrativeSection{Title: title}
			byTitle[title] = dst
			order = append(order, title)
		}

		seen := make(map[string]struct{}, len(dst.Bullets))
		for _, blt := range dst.Bullets {
			seen[blt] = struct{}{}
		}
		for _, blt := range s.Bullets {
			blt = strings.TrimSpace(blt)
			if blt == "" || len(dst.Bullets) >= maxSectionBullets {
				continue
			}
			if _, dup := seen[blt]; dup {
				continue
			}
			dst.Bullets = append(dst.Bullets, blt)
			seen[blt] = struct{}{}
		}

		for _, sub := range s.Subsections {
			if len(dst.Subsections) >= maxSubsections {
				break
			}
			subTitle := strings.TrimSpace(sub.Title)
			if subTitle == "" {
				continue
			}
			norm := domain.Subsection{Title: subTitle}
			for _, blt := range sub.Bullets {
				if len(norm.Bullets) >= maxSubsectionBullets {
					break
				}
				norm.Bullets = append(norm.Bullets, strings.TrimSpace(blt))
			}
			dst.Subsections = append(dst.Subsections, norm)
		}
	}

	out := make([]domain.NarrativeSection, 0, len(order))
	for _, title := range order {
		out = append(out, *byTitle[title])
	}
	return out
}

func mergeSlides(a, b []domain.Slide) []domain.Slide {
	byTitle := make(map[string]*domain.Slide)
	var order []string

	for _, s := range append(append([]domain.Slide{}, a...), b...) {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}
		dst, ok := byTitle[title]
		if !ok {
			dst = &domain.Slide{Title: title, Subtitle: s.Subtitle}
			byTitle[title] = dst
			order = append(order, title)
		}

		for _, sh := range s.Subheadings {
			if len(dst.Subheadings) >= maxSubheadings {
				break
			}
			var content []string
			for _, c := range sh.Content {
				if c = strings.TrimSpace(c); c != "" {
					content = append(content, c)
				}
			}
			if len(content) == 0 {
				continue
			}
			if len(content) > maxSubheadingContent {
				content = content[:maxSubheadingContent]
			}
			heading := strings.TrimSpace(sh.Heading)
			if heading == "" {
				heading = "Key points"
			}
			dst.Subheadings = append(dst.Subheadings, domain.Subheading{
				Heading: heading,
				Color:   domain.EnsureColor(sh.Color),
				Content: content,
			})
		}
	}

	out := make([]domain.Slide, 0, len(order))
	for _, title := range order {
		sl := byTitle[title]
		if len(sl.Subheadings) == 0 {
			sl.Subheadings = []domain.Subheading{{Heading: "Key points", Color: domain.DefaultColor}}
		}
		out = append(out, *sl)
	}
	return out
}
