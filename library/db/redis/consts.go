package redis

const (
	keyPrefix        = "files/"
	keyPrefixSession = keyPrefix + "sessions/"
	keyPrefixTask    = keyPrefix + "tasks/"

	// KeyTaskThumbnail is the list key feeding thumbnail workers.
	KeyTaskThumbnail = keyPrefixTask + "thumbnail"
	// KeyTaskThumbnailDead holds permanently failed thumbnail tasks.
	KeyTaskThumbnailDead = keyPrefixTask + "thumbnail/dead"
)
