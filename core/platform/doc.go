// Package platform implements the match-hosting services replays are
// fetched from.
//
// Every service satisfies Platform (GetMatch, DownloadRec, FindUser) and
// is looked up by identifier through a Registry:
//
//	voobly, vooblycn   Voobly global and cn
//	igz                alias of voobly
//	qq                 aocrec
//	de                 Definitive Edition
//
// Operations a service does not offer return ErrUnsupported. Network and
// HTTP status failures wrap ErrFetch. Services that can list ladder
// matches also implement LadderLister.
//
// The de service cannot fetch a match by id alone; it keeps a go-cache of
// match id to reference profile, filled by LadderMatches or RememberMatches.
//
// Payloads are decoded loosely (MatchFromPayload) because the services and
// the archive metadata files disagree on key names and value types.
package platform
