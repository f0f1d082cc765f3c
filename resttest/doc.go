// Package resttest provides a recording HTTP test server for restbase
// clients.
//
// The server stores every request it receives so tests can assert on
// what went over the wire, and is closed automatically when the test ends:
//
//	func TestCreateUser(t *testing.T) {
//	    srv := resttest.NewServer(t, resttest.JSON(http.StatusCreated, user))
//	    // ... call srv.URL ...
//	    if got := srv.Last().Body; string(got) != `{"name":"Ada"}` {
//	        t.Errorf("unexpected body %s", got)
//	    }
//	}
package resttest
