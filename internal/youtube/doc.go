// Package youtube adapts yt-dlp and the channel RSS feed into the video
// source used by the extraction pipeline.
//
// Client.FetchVideo runs yt-dlp in JSON mode and maps the result into a
// metadata.VideoRecord, choosing the best thumbnail with PickThumbnail. When
// captions are requested the track for the configured language is taken
// inline when yt-dlp embedded it, or downloaded from the track URL otherwise.
// Caption problems never fail a fetch; the caller simply gets no payload.
//
// Channel listing has two sources behind the Lister interface: Client lists
// through yt-dlp with date, duration and count filters, and FeedLister reads
// the public RSS feed of a channel id. FormatURLList renders either result
// in the line format consumed by extract --file.
package youtube
