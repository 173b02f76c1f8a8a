package analyzer

import (
	"context"
	"net/url"
	"strings"
)

// textFetcher retrieves small auxiliary text resources.
type textFetcher interface {
	GetText(ctx context.Context, targetURL string) (string, error)
}

// FetchRobotsTxt retrieves and parses robots.txt from the origin of pageURL.
// Any failure degrades to "not found" rather than propagating an error.
func FetchRobotsTxt(ctx context.Context, tf textFetcher, pageURL string) RobotsTxtFacts {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return RobotsTxtFacts{Rules: []RobotsRule{}}
	}

	content, err := tf.GetText(ctx, u.Scheme+"://"+u.Host+"/robots.txt")
	if err != nil {
		return RobotsTxtFacts{Rules: []RobotsRule{}}
	}

	return RobotsTxtFacts{
		Found:   true,
		Content: content,
		Rules:   ParseRobotsTxt(content),
	}
}

// ParseRobotsTxt parses robots.txt line by line. user-agent lines open a new
// group (the default group is "*"); allow, disallow and sitemap lines are
// recorded in file order under the current group; anything else, including
// comments and blank lines, is ignored.
func ParseRobotsTxt(content string) []RobotsRule {
	rules := []RobotsRule{}
	group := "*"

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		directive, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		directive = strings.ToLower(strings.TrimSpace(directive))
		value = strings.TrimSpace(value)

		switch directive {
		case "user-agent":
			group = value
		case "allow", "disallow", "sitemap":
			rules = append(rules, RobotsRule{
				UserAgent: group,
				Directive: directive,
				Path:      value,
			})
		}
	}

	return rules
}
