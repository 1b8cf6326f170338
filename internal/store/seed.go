package store

import (
	"os"

	"jobradar/internal/domain/job"
)

// FallbackSource tags curated records written when no real scrape has run yet.
const FallbackSource = "Fallback Data"

func fallbackRecords() []job.Record {
	return []job.Record{
		{
			ID:          "fb-1",
			Title:       "Frontend Developer (React/Next.js)",
			Company:     "TechNepal Solutions",
			Location:    "Kathmandu",
			Link:        "https://example.com/job/1",
			Description: "We are looking for a skilled Frontend Developer proficient in React, Next.js, and Tailwind CSS. The ideal candidate will have 2+ years of experience building scalable web applications.",
			Source:      FallbackSource,
		},
		{
			ID:          "fb-2",
			Title:       "Backend Engineer (Node.js/PostgreSQL)",
			Company:     "Everest Innovations",
			Location:    "Lalitpur, Nepal",
			Link:        "https://example.com/job/2",
			Description: "Seeking a strong Backend Engineer with expertise in Node.js, Express, and PostgreSQL. You will be responsible for designing and optimizing RESTful APIs.",
			Source:      FallbackSource,
		},
		{
			ID:          "fb-3",
			Title:       "UI/UX Designer",
			Company:     "Creative Yeti",
			Location:    "Kathmandu (Remote)",
			Link:        "https://example.com/job/3",
			Description: "Join our design team to create stunning user interfaces and seamless experiences. Must be proficient in Figma and Adobe Creative Suite.",
			Source:      FallbackSource,
		},
		{
			ID:          "fb-4",
			Title:       "Full Stack Developer",
			Company:     "Gurkha Tech",
			Location:    "Pokhara",
			Link:        "https://example.com/job/4",
			Description: "We need a Full Stack Developer capable of handling both frontend and backend tasks. Required skills: React, Node.js, MongoDB.",
			Source:      FallbackSource,
		},
		{
			ID:          "fb-5",
			Title:       "Digital Marketing Executive",
			Company:     "Kathmandu Digitals",
			Location:    "Kathmandu",
			Link:        "https://example.com/job/5",
			Description: "Looking for a data-driven Digital Marketing Executive. Responsibilities include SEO optimization and managing Google Ads and social media campaigns.",
			Source:      FallbackSource,
		},
		{
			ID:          "fb-6",
			Title:       "QA Engineer (Automation)",
			Company:     "QA Nepal",
			Location:    "Kathmandu",
			Link:        "https://example.com/job/6",
			Description: "We are hiring a QA Engineer focusing on test automation using Selenium, Cypress, or Playwright.",
			Source:      FallbackSource,
		},
	}
}

// Seed writes the curated fallback records when no snapshot exists yet, so the
// matching UI has data before the first scrape completes. A present file, even
// an empty array, is left alone.
func (s *JobStore) Seed() error {
	if s == nil || s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	s.logger.Printf("[store] no snapshot at %s, seeding %d fallback record(s)", s.path, len(fallbackRecords()))
	return s.ReplaceAll(fallbackRecords())
}
