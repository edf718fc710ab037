package config

const (
	defaultDataDir                   = "~/.local/share/greenroom"
	defaultLogDir                    = "~/.local/share/greenroom/logs"
	defaultReportsDir                = "~/greenroom/reports"
	defaultLogRetentionDays          = 60
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
	defaultAPIBind                   = "127.0.0.1:7317"
	defaultOracleProvider            = "gemini"
	defaultOracleBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	defaultOracleModel               = "gemini-2.0-flash"
	defaultOracleTimeoutSeconds      = 60
	defaultOracleMaxAttempts         = 3
	defaultCaptureSeconds            = 120
	defaultInputDevice               = "default"
	defaultSampleRate                = 16000
	defaultRecorderBinary            = "ffmpeg"
	defaultTranscriber               = "whisper"
	defaultWhisperBinary             = "whisper"
	defaultWhisperModel              = "base"
	defaultVoxtralModel              = "voxtral-mini-latest"
	defaultSynthesizerBinary         = "espeak-ng"
	defaultInterviewRole             = "Software Engineer"
	defaultInterviewType             = "technical"
	defaultQuestionsPerSession       = 6
	defaultAnswerTimeoutSeconds      = 180
	defaultMaxEvalAttempts           = 3
	defaultNotifyMinInterviewSeconds = 60
	defaultNotifyQueueMinItems       = 2
	defaultNotifyDedupWindowSeconds  = 600
	defaultWorkflowHeartbeatInterval = 15
	defaultWorkflowHeartbeatTimeout  = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			ReportsDir: defaultReportsDir,
			WorkDir:    defaultWorkDir(),
			APIBind:    defaultAPIBind,
		},
		Oracle: Oracle{
			Provider:       defaultOracleProvider,
			BaseURL:        defaultOracleBaseURL,
			Model:          defaultOracleModel,
			TimeoutSeconds: defaultOracleTimeoutSeconds,
			MaxAttempts:    defaultOracleMaxAttempts,
		},
		Speech: Speech{
			CaptureEnabled:    true,
			CaptureSeconds:    defaultCaptureSeconds,
			InputDevice:       defaultInputDevice,
			SampleRate:        defaultSampleRate,
			RecorderBinary:    defaultRecorderBinary,
			Transcriber:       defaultTranscriber,
			WhisperBinary:     defaultWhisperBinary,
			WhisperModel:      defaultWhisperModel,
			VoxtralModel:      defaultVoxtralModel,
			SpeakQuestions:    true,
			SynthesizerBinary: defaultSynthesizerBinary,
		},
		Interview: Interview{
			DefaultRole:          defaultInterviewRole,
			DefaultType:          defaultInterviewType,
			QuestionsPerSession:  defaultQuestionsPerSession,
			AnswerTimeoutSeconds: defaultAnswerTimeoutSeconds,
			FollowUpsEnabled:     true,
			MaxEvalAttempts:      defaultMaxEvalAttempts,
		},
		Notifications: Notifications{
			RequestTimeout:      10,
			SessionReady:        true,
			InterviewComplete:   true,
			ReportReady:         true,
			Queue:               true,
			Review:              true,
			Errors:              true,
			MinInterviewSeconds: defaultNotifyMinInterviewSeconds,
			QueueMinItems:       defaultNotifyQueueMinItems,
			DedupWindowSeconds:  defaultNotifyDedupWindowSeconds,
		},
		Workflow: Workflow{
			QueuePollInterval:   5,
			ErrorRetryInterval:  10,
			HeartbeatInterval:   defaultWorkflowHeartbeatInterval,
			HeartbeatTimeout:    defaultWorkflowHeartbeatTimeout,
			SoundMonitorTimeout: 5,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
