package deps

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/cache"
	"github.com/aTrapDeer/portfolio-backend/internal/content"
	"github.com/aTrapDeer/portfolio-backend/internal/dashboard"
	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/mailer"
	"github.com/aTrapDeer/portfolio-backend/internal/projection"
	"github.com/aTrapDeer/portfolio-backend/internal/visits"
)

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	DB          *gorm.DB
	Stores      content.Stores        // read side of the admin and public handlers
	Content     *content.Service      // every admin write goes through here
	Projection  *projection.Builder   // public response shapes
	Cache       cache.Store           // public read cache
	Dashboard   *dashboard.Aggregator // admin overview
	Visits      *visits.Recorder      // public request log
	Mail        *mailer.Mailer        // contact notifications, nil or disabled without SMTP
	Tokens      *auth.Tokens          // bearer token check
	Auth        *auth.Authenticator   // admin login
	Files       http.Handler          // serves stored uploads under /storage
	CORSOrigins []string              // allowed frontend origins
	TrustProxy  bool                  // resolve client ip from proxy headers

	MaxBodyBytes       int64 // hard cap on request bodies
	MaxMultipartMemory int64 // multipart parts above this spill to disk
	LoginBurst         int   // login attempts per ip before throttling
	LoginPerMin        int   // login refill rate per ip
}
