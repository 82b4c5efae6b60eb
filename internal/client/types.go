// Package client consumes the Forkalytics analytics API. The wire types
// mirror the backend's JSON responses; nullable fields are pointers and the
// client never interprets business content beyond decoding.
package client

// SentimentOverview aggregates sentiment analysis across all analysed posts.
type SentimentOverview struct {
	AvgSentiment  *float64 `json:"avg_sentiment"`
	PositiveCount int      `json:"positive_count"`
	NegativeCount int      `json:"negative_count"`
	NeutralCount  int      `json:"neutral_count"`
	TotalAnalyzed int      `json:"total_analyzed"`
}

// StatsOverview is the top-level counter snapshot for the instance.
type StatsOverview struct {
	TotalPosts    int               `json:"total_posts"`
	TotalAccounts int               `json:"total_accounts"`
	PostsToday    int               `json:"posts_today"`
	PostsThisHour int               `json:"posts_this_hour"`
	AvgEngagement float64           `json:"avg_engagement"`
	Sentiment     SentimentOverview `json:"sentiment"`
}

// Account identifies the author of a post.
type Account struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Acct           string  `json:"acct"`
	DisplayName    *string `json:"display_name"`
	FollowersCount int     `json:"followers_count"`
	AvatarURL      *string `json:"avatar_url"`
}

// Post is a single post with engagement counters and optional sentiment.
// CreatedAt is the raw server timestamp string; display paths interpret it
// through util.ParseServerTime.
type Post struct {
	ID              string   `json:"id"`
	URL             *string  `json:"url"`
	Content         *string  `json:"content"`
	ContentText     *string  `json:"content_text"`
	Language        *string  `json:"language"`
	ReblogsCount    int      `json:"reblogs_count"`
	FavouritesCount int      `json:"favourites_count"`
	RepliesCount    int      `json:"replies_count"`
	EngagementScore float64  `json:"engagement_score"`
	HasMedia        bool     `json:"has_media"`
	Hashtags        []string `json:"hashtags"`
	CreatedAt       string   `json:"created_at"`
	Account         Account  `json:"account"`
	SentimentLabel  *string  `json:"sentiment_label"`
	SentimentScore  *float64 `json:"sentiment_score"`
}

// HourlyStat is one per-hour activity record, delivered hour ascending.
type HourlyStat struct {
	Hour            string   `json:"hour"`
	PostCount       int      `json:"post_count"`
	ReblogCount     int      `json:"reblog_count"`
	ReplyCount      int      `json:"reply_count"`
	TotalEngagement int      `json:"total_engagement"`
	AvgEngagement   float64  `json:"avg_engagement"`
	AvgSentiment    *float64 `json:"avg_sentiment"`
}

// SentimentBucket is one per-hour sentiment aggregate, delivered hour
// ascending.
type SentimentBucket struct {
	Hour         string   `json:"hour"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	Count        int      `json:"count"`
}

// HashtagCount is one trending hashtag with its post count.
type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// DailySummary is the AI-generated summary for one calendar day. The
// backend delivers summaries newest first over a rolling window.
type DailySummary struct {
	Date            string   `json:"date"`
	TotalPosts      int      `json:"total_posts"`
	TotalEngagement int      `json:"total_engagement"`
	UniqueAuthors   int      `json:"unique_authors"`
	AvgSentiment    *float64 `json:"avg_sentiment"`
	PositiveCount   int      `json:"positive_count"`
	NegativeCount   int      `json:"negative_count"`
	NeutralCount    int      `json:"neutral_count"`
	SummaryText     *string  `json:"summary_text"`
	TrendingTopics  []string `json:"trending_topics"`
	NotableEvents   []string `json:"notable_events"`
}

// TopicEntry is one AI-extracted topic within an hour bucket.
type TopicEntry struct {
	Topic         string   `json:"topic"`
	Summary       *string  `json:"summary"`
	PostCount     int      `json:"post_count"`
	AvgSentiment  *float64 `json:"avg_sentiment"`
	SamplePostIDs []string `json:"sample_post_ids"`
}

// HourlyTopicsResponse maps hour-key timestamp strings to that hour's
// topics. The keys are ISO timestamps and sort lexicographically in time
// order; the client leaves ordering to the caller.
type HourlyTopicsResponse struct {
	HourlyTopics map[string][]TopicEntry `json:"hourly_topics"`
}

// CurrentTopicsResponse holds the topics of the most recent populated hour.
type CurrentTopicsResponse struct {
	Hour   *string      `json:"hour"`
	Topics []TopicEntry `json:"topics"`
}
