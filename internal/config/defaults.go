package config

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Notion: NotionConfig{
			BaseURL: "https://api.notion.com",
		},
		OpenAI: OpenAIConfig{Model: "gpt-4o-mini"},
		Ingest: IngestConfig{
			Feeds:             defaultFeeds(),
			RecencyDays:       14,
			KeywordFilter:     true,
			Keywords:          defaultKeywords(),
			DedupePath:        "rss_seen.db",
			MaxMatchTextChars: 4000,
		},
		Summarize: SummarizeConfig{
			BatchLimit:      15,
			MaxInputTokens:  2500,
			MaxOutputTokens: 350,
			MinExcerptChars: 500,
		},
		Draft: DraftConfig{
			LookbackDays:    14,
			MaxSources:      8,
			MaxInputTokens:  9000,
			MaxOutputTokens: 3200,
		},
		Scoring: ScoringConfig{
			MinUsefulness: 70.0,
			MinConfidence: 0.6,
			SourceWeights: defaultSourceWeights(),
		},
		Topics: defaultTopics(),
	}
}

func defaultKeywords() []string {
	return []string{
		"operating model",
		"operational modernization",
		"modernization",
		"transformation",
		"ai transformation",
		"portfolio",
		"portfolio governance",
		"governance",
		"execution systems",
		"workflow",
		"automation",
		"agentic",
		"platform engineering",
		"coordination debt",
		"decision velocity",
		"signal",
	}
}

func defaultFeeds() []string {
	return []string{
		// Operating model & governance
		"https://hbr.org/feed",
		"https://sloanreview.mit.edu/feed/",
		"https://www.mckinsey.com/featured-insights/rss",
		"https://www.bcg.com/publications/rss",
		"https://www.bain.com/insights/rss/",
		"https://knowledge.wharton.upenn.edu/feed/",
		// Transformation & operational excellence
		"https://www.processexcellencenetwork.com/rss",
		"https://insights.btoes.com/rss.xml",
		"https://www.strategy-business.com/rss",
		"https://www.gartner.com/smarterwithgartner/rss.xml",
		// Platform / engineering modernization
		"https://www.infoq.com/feed/",
		"https://www.thoughtworks.com/rss/insights.xml",
		"https://www.cncf.io/feed/",
		"https://www.atlassian.com/blog/feed",
		// AI strategy / cloud modernization
		"https://cloud.google.com/blog/rss",
		"https://aws.amazon.com/blogs/architecture/feed/",
		"https://www.microsoft.com/en-us/worklab/feed",
		// Organizational design / systems thinking
		"https://fs.blog/feed/",
		"https://martinfowler.com/feed.atom",
	}
}

// defaultSourceWeights is ordered; the first matching fragment wins, so
// higher-priority publications come first.
func defaultSourceWeights() []SourceWeightConfig {
	return []SourceWeightConfig{
		{Match: "Harvard Business Review", Factor: 1.2},
		{Match: "MIT Sloan Management Review", Factor: 1.2},
		{Match: "McKinsey", Factor: 1.15},
		{Match: "InfoQ", Factor: 1.1},
		{Match: "Thoughtworks", Factor: 1.1},
		{Match: "CNCF", Factor: 1.05},
		{Match: "Atlassian", Factor: 1.05},
		{Match: "AWS", Factor: 1.0},
		{Match: "Google", Factor: 1.0},
		{Match: "Microsoft", Factor: 1.0},
	}
}

func defaultTopics() []TopicConfig {
	return []TopicConfig{
		{
			Name:     "Operating Model & Governance",
			Keywords: []string{"operating model", "governance", "portfolio", "prioritization", "decision rights", "alignment"},
			Angle:    "How operating model clarity and governance mechanisms increase decision velocity and execution reliability.",
		},
		{
			Name:     "AI-Enabled Program Management",
			Keywords: []string{"program management", "technical program management", "portfolio", "planning", "roadmap", "delivery", "execution systems", "AI"},
			Angle:    "How AI augments TPM practice: signal synthesis, dependency management, risk surfacing, and narrative clarity.",
		},
		{
			Name:     "Platform Engineering & Modernization",
			Keywords: []string{"platform", "platform engineering", "modernization", "architecture", "reliability", "observability", "internal developer platform"},
			Angle:    "Modernization as an execution strategy: platforms, reliability, and enabling teams to ship safely at speed.",
		},
		{
			Name:     "Workflow Automation & Agentic Ops",
			Keywords: []string{"automation", "agentic", "agents", "workflow", "orchestration", "ops", "productivity"},
			Angle:    "From automation to agentic operations: where to draw boundaries, how to govern, and what to operationalize first.",
		},
		{
			Name:     "Metrics, Signals & Decision Velocity",
			Keywords: []string{"metrics", "signals", "decision velocity", "observability", "measurement", "outcomes", "risk", "leading indicators"},
			Angle:    "Using the right signals to manage coordination debt, improve prioritization, and accelerate decisions.",
		},
	}
}
