package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	FeedsDir          string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	CacheTTL          int

	// VK API configuration
	VKBaseURL     string
	VKVersion     string
	VKAccessToken string
	Proxy         string
	HTTPTimeout   int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
