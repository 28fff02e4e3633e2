package app

import "time"

func SetFollowUpTimeout(s *BookingService, d time.Duration) { s.followUpWithin = d }
