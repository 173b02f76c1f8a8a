package analyzer

import "math"

// Point weights of the scoring rubric. The raw total is rescaled from
// maxPoints to 0-100. These values are fixed so scores stay comparable
// across runs.
const (
	pointsTitle       = 10
	pointsDescription = 10
	pointsCanonical   = 5
	pointsRobotsMeta  = 5
	pointsHTMLLang    = 5
	pointsSchema      = 15
	pointsRobotsTxt   = 5
	pointsLinks       = 10
	pointsBreadcrumbs = 5

	maxPoints = 70

	titleMinLength       = 50
	titleMaxLength       = 60
	descriptionMinLength = 150
	descriptionMaxLength = 160
)

// Score maps the extracted fact bundles to the weighted 0-100 score with
// issue/warning/passed tallies. Issues, warnings and passed are independent
// counters of satisfied or violated checks, decoupled from the point weights.
func Score(meta MetaTagsFacts, schema SchemaFacts, robotsTxt RobotsTxtFacts, links LinkGraphFacts, breadcrumbs BreadcrumbFacts) ScoreFacts {
	var points int
	var facts ScoreFacts

	switch {
	case meta.Title == "":
		facts.Issues++
	case meta.TitleLength >= titleMinLength && meta.TitleLength <= titleMaxLength:
		points += pointsTitle
		facts.Passed++
	default:
		points += pointsTitle / 2
		facts.Warnings++
	}

	switch {
	case meta.Description == "":
		facts.Issues++
	case meta.DescriptionLength >= descriptionMinLength && meta.DescriptionLength <= descriptionMaxLength:
		points += pointsDescription
		facts.Passed++
	default:
		points += pointsDescription / 2
		facts.Warnings++
	}

	if meta.Canonical != "" && meta.CanonicalMatches {
		points += pointsCanonical
		facts.Passed++
	} else {
		facts.Warnings++
	}

	if meta.Robots != "" && meta.RobotsValid {
		points += pointsRobotsMeta
		facts.Passed++
	} else {
		facts.Warnings++
	}

	if meta.HTMLLang != "" {
		points += pointsHTMLLang
		facts.Passed++
	} else {
		facts.Warnings++
	}

	if schema.Found {
		points += pointsSchema
		facts.Passed++
	} else {
		facts.Issues++
	}

	if robotsTxt.Found {
		points += pointsRobotsTxt
		facts.Passed++
	} else {
		facts.Warnings++
	}

	// A clean link graph earns points without joining the passed tally;
	// every broken link counts as its own issue.
	if len(links.Broken) == 0 {
		points += pointsLinks
	} else {
		facts.Issues += len(links.Broken)
	}

	if breadcrumbs.Found {
		points += pointsBreadcrumbs
		facts.Passed++
	} else {
		facts.Warnings++
	}

	score := int(math.Round(float64(points) / maxPoints * 100))
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	facts.Score = score

	return facts
}
