// Package http provides HTTP handlers and middleware for the course
// scheduling API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","principal":{"user_id","is_admin"}} with token also
//     surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the
//     Authorization header or session cookie. Returns 204 No Content and clears
//     the cookie.
//   - GET /courses, POST /courses, PUT /courses/{courseID},
//     DELETE /courses/{occurrenceID}?whole_series=: course scheduling endpoints
//     exchanging the `courseDTO` payload defined in course_handler.go. Creates
//     and updates return the materialized occurrences plus any conflicts that
//     were overridden; unoverridden conflicts answer 409 with
//     {"has_conflicts","conflicts"}. Deletes address one occurrence, or with
//     whole_series=true the full series and its course definition.
//   - POST /courses/check: runs the scheduling pipeline without persisting and
//     returns {"has_conflicts","conflicts"}.
//   - GET /timetable: grouped display rows; recurring series collapse into one
//     summary row. Filters: room_id, teacher_id, from, to, day, week, month.
//   - GET /rooms, POST /rooms, GET/PUT/DELETE /rooms/{id}: room catalog, with
//     equivalent routes for /teachers and /subjects. Listing and fetching are
//     available to any authenticated principal while mutations require admin
//     privileges.
//   - GET /holidays?from=&to=, POST /holidays, PUT/DELETE /holidays/{id}:
//     holiday calendar maintenance; mutations require admin privileges.
//   - GET /users, POST /users, PUT /users/{id}, DELETE /users/{id}:
//     administrator controlled account management endpoints exchanging the
//     `userDTO` payload defined in user_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
