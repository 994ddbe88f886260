package common

// AppName is used in user-facing banners and log attributes.
const AppName = "Alcance Sol"

// DefaultSupportNumber is the support line used when SUPPORT_WA_NUMBER is unset.
const DefaultSupportNumber = "5562993373278"

// APIPathPrefix marks server API requests; the offline cache never touches them.
const APIPathPrefix = "/api/"
