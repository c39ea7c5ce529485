package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteSignin is the sign-in route.
	RouteSignin = "/signin"
	// RouteSignup is the sign-up route.
	RouteSignup = "/signup"
	// RouteSignout is the sign-out route.
	RouteSignout = "/signout"

	// RouteBlog is the public blog route.
	RouteBlog = "/blog"
	// RouteHotels is the public hotels route.
	RouteHotels = "/hotels"
	// RouteProducts is the public products route.
	RouteProducts = "/products"
	// RouteSearch is the public search route.
	RouteSearch = "/search"

	// RouteBlogs is the blogs admin route.
	RouteBlogs = "/blogs"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteMedia is the media admin route.
	RouteMedia = "/media"
	// RouteSocial is the social settings admin route.
	RouteSocial = "/social"
	// RouteEvents is the event log admin route.
	RouteEvents = "/events"
	// RouteCache is the cache admin route.
	RouteCache = "/cache"
	// RouteJobs is the scheduled jobs admin route.
	RouteJobs = "/jobs"

	// RouteBlogsID is the blogs ID route pattern.
	RouteBlogsID = RouteBlogs + RouteParamID
	// RouteHotelsID is the hotels ID route pattern.
	RouteHotelsID = RouteHotels + RouteParamID
	// RouteProductsID is the products ID route pattern.
	RouteProductsID = RouteProducts + RouteParamID
	// RouteUsersID is the users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID
	// RouteMediaID is the media ID route pattern.
	RouteMediaID = RouteMedia + RouteParamID
)

const (
	redirectAdmin            = "/admin"
	redirectAdminBlogs       = redirectAdmin + RouteBlogs
	redirectAdminBlogsNew    = redirectAdminBlogs + RouteSuffixNew
	redirectAdminHotels      = redirectAdmin + RouteHotels
	redirectAdminHotelsNew   = redirectAdminHotels + RouteSuffixNew
	redirectAdminProducts    = redirectAdmin + RouteProducts
	redirectAdminProductsNew = redirectAdminProducts + RouteSuffixNew
	redirectAdminMedia       = redirectAdmin + RouteMedia
	redirectAdminUsers       = redirectAdmin + RouteUsers
	redirectAdminUsersNew    = redirectAdminUsers + RouteSuffixNew
	redirectAdminSocial      = redirectAdmin + RouteSocial
	redirectAdminCache       = redirectAdmin + RouteCache
	redirectAdminEvents      = redirectAdmin + RouteEvents
	redirectSignin           = RouteSignin
	redirectSignup           = RouteSignup

	redirectAdminBlogsID    = redirectAdminBlogs + "/%d"
	redirectAdminHotelsID   = redirectAdminHotels + "/%d"
	redirectAdminProductsID = redirectAdminProducts + "/%d"
	redirectAdminUsersID    = redirectAdminUsers + "/%d"
)

// Utility constants used by main.go.
const (
	// UploadsDirPath is the default uploads directory path.
	UploadsDirPath = "./uploads"
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
)
