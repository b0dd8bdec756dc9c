package config

const (
	defaultOutputDir          = "~/.local/share/yongent/downloads"
	defaultStagingDir         = "~/.local/share/yongent/staging"
	defaultStateDir           = "~/.local/share/yongent/state"
	defaultLogDir             = "~/.local/share/yongent/logs"
	defaultAPIBind            = "127.0.0.1:8394"
	defaultYtDlpBinary        = "yt-dlp"
	defaultSearchLimit        = 10
	defaultSocketTimeout      = 30
	defaultMelonBaseURL       = "https://www.melon.com"
	defaultMelonUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzAgent   = "yongent/0.1 (music downloader)"
	defaultRequestTimeout     = 10
	defaultFFmpegBinary       = "ffmpeg"
	defaultClipSeconds        = 60
	defaultClipFadeSeconds    = 5
	defaultClipBitrate        = "192k"
	defaultPlaceholder        = "확인 필요"
	defaultMaxConcurrentJobs  = 2
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			StagingDir: defaultStagingDir,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		YtDlp: YtDlp{
			Binary:        defaultYtDlpBinary,
			PlayerClients: []string{"ios", "android", "tv_embedded"},
			SearchLimit:   defaultSearchLimit,
			SocketTimeout: defaultSocketTimeout,
		},
		Melon: Melon{
			BaseURL:        defaultMelonBaseURL,
			UserAgent:      defaultMelonUserAgent,
			RequestTimeout: defaultRequestTimeout,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			UserAgent:      defaultMusicBrainzAgent,
			RequestTimeout: defaultRequestTimeout,
		},
		Clip: Clip{
			FFmpegBinary: defaultFFmpegBinary,
			Seconds:      defaultClipSeconds,
			FadeSeconds:  defaultClipFadeSeconds,
			Bitrate:      defaultClipBitrate,
		},
		Metadata: Metadata{
			Placeholder:       defaultPlaceholder,
			PublisherKeywords: []string{"official", "vevo", "topic"},
			EmbedArtwork:      true,
		},
		Workflow: Workflow{
			MaxConcurrentJobs: defaultMaxConcurrentJobs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
