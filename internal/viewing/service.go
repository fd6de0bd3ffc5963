// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package viewing

import (
	"net/url"
	"strings"
)

// Streaming services whose playback is measured.
const (
	ServiceYouTube            = "youtube"
	ServiceNetflix            = "netflix"
	ServiceParavi             = "paravi"
	ServiceTVer               = "tver"
	ServiceFOD                = "fod"
	ServiceNicoVideo          = "nicovideo"
	ServiceNHKOnDemand        = "nhkondemand"
	ServiceDTV                = "dtv"
	ServiceAbemaTV            = "abematv"
	ServiceAmazon             = "amazon"
	ServiceIIJTwilightConcert = "iijtwilightconcert"
	ServiceGYAO               = "gyao"
)

// serviceHosts maps page hosts to services.
var serviceHosts = map[string]string{
	"www.youtube.com":     ServiceYouTube,
	"m.youtube.com":       ServiceYouTube,
	"www.netflix.com":     ServiceNetflix,
	"www.paravi.jp":       ServiceParavi,
	"tver.jp":             ServiceTVer,
	"i.fod.fujitv.co.jp":  ServiceFOD,
	"www.nicovideo.jp":    ServiceNicoVideo,
	"live.nicovideo.jp":   ServiceNicoVideo,
	"live2.nicovideo.jp":  ServiceNicoVideo,
	"www.nhk-ondemand.jp": ServiceNHKOnDemand,
	"pc.video.dmkt-sp.jp": ServiceDTV,
	"abema.tv":            ServiceAbemaTV,
	"www.amazon.co.jp":    ServiceAmazon,
	"pr.iij.ad.jp":        ServiceIIJTwilightConcert,
	"gyao.yahoo.co.jp":    ServiceGYAO,
}

// Services returns every known service name.
func Services() []string {
	return []string{
		ServiceYouTube, ServiceNetflix, ServiceParavi, ServiceTVer, ServiceFOD,
		ServiceNicoVideo, ServiceNHKOnDemand, ServiceDTV, ServiceAbemaTV,
		ServiceAmazon, ServiceIIJTwilightConcert, ServiceGYAO,
	}
}

// ServiceForLocation returns the service a page URL belongs to, or "" when
// the URL cannot be parsed or its host is not a known service.
func ServiceForLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return serviceHosts[strings.ToLower(u.Hostname())]
}
